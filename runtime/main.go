package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/readquest-labs/readquest_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		sqlService(),
		&services.RedisService{},
		&services.JWTService{},
		&services.MonitoringService{},

		&services.LeaderboardService{},
		&services.LedgerService{},
		&services.StreakService{},
		&services.QuestService{},
		&services.AchievementService{},
		&services.GoalService{},
		&services.GamificationService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context exited")
		return
	}
}

// sqlService picks the SQL backend: postgres when DATABASE_URL or DB_HOST is
// set, sqlite otherwise. Both register under the same service id.
func sqlService() context.Service {
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" {
		return &services.PostgresService{}
	}
	return &services.SqliteService{}
}
