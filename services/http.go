package services

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/readquest-labs/readquest_api/services/handlers"
	"github.com/readquest-labs/readquest_api/shared"
)

type HttpService struct {
	context.DefaultService

	jwtSvc         *JWTService
	gameSvc        *GamificationService
	ledgerSvc      *LedgerService
	questSvc       *QuestService
	achievementSvc *AchievementService
	goalSvc        *GoalService
	leaderboardSvc *LeaderboardService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.gameSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.questSvc = svc.Service(QUEST_SVC).(*QuestService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.goalSvc = svc.Service(GOAL_SVC).(*GoalService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)

	svc.app = fiber.New(fiber.Config{
		AppName:      "ReadQuest API",
		ErrorHandler: svc.handleError,
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Length",
	}))
	svc.app.Use(MetricsMiddleware())

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("Starting HTTP server")
	return svc.app.Listen(":" + strconv.Itoa(svc.port))
}

func (svc *HttpService) registerRoutes() {
	authMw := svc.jwtSvc.RequiredAuth()

	eventHandler := handlers.NewEventHandler(svc.gameSvc)
	statsHandler := handlers.NewStatsHandler(svc.gameSvc, svc.ledgerSvc)
	progressionHandler := handlers.NewProgressionHandler(svc.achievementSvc, svc.questSvc)
	goalHandler := handlers.NewGoalHandler(svc.goalSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.leaderboardSvc, svc.jwtSvc)

	svc.app.Get("/ping", svc.ping)

	v1 := svc.app.Group("/api/v1")

	v1.Get("/ping", svc.ping)

	// Event ingestion is write-heavy and client-triggered; keep it rate limited
	events := v1.Group("/events", authMw, limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals(shared.UserID).(string); ok {
				return userID
			}
			return c.IP()
		},
	}))
	events.Post("/book-started", eventHandler.BookStarted)
	events.Post("/book-finished", eventHandler.BookFinished)
	events.Post("/review-written", eventHandler.ReviewWritten)
	events.Post("/book-rated", eventHandler.BookRated)
	events.Post("/reading-logged", eventHandler.ReadingLogged)
	events.Post("/club-joined", eventHandler.ClubJoined)
	events.Post("/club-created", eventHandler.ClubCreated)

	v1.Get("/stats", authMw, statsHandler.GetStats)
	v1.Get("/stats/xp-history", authMw, statsHandler.GetXPHistory)

	v1.Get("/achievements", progressionHandler.GetAchievements)
	v1.Get("/achievements/me", authMw, progressionHandler.GetUserAchievements)

	v1.Get("/quests", progressionHandler.GetQuests)
	v1.Get("/quests/me", authMw, progressionHandler.GetUserQuests)
	v1.Post("/quests/:id/accept", authMw, progressionHandler.AcceptQuest)

	v1.Get("/goals", authMw, goalHandler.GetGoals)
	v1.Put("/goals", authMw, goalHandler.SetGoal)

	v1.Get("/leaderboard/weekly", leaderboardHandler.GetWeeklyLeaderboard)
	v1.Get("/leaderboard/monthly", leaderboardHandler.GetMonthlyLeaderboard)
	v1.Get("/leaderboard/all-time", leaderboardHandler.GetAllTimeLeaderboard)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
