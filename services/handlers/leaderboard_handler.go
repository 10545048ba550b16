package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/readquest-labs/readquest_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
	jwtSvc         JWTServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface, jwtSvc JWTServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
		jwtSvc:         jwtSvc,
	}
}

// @Summary Get Weekly Leaderboard
// @Description Get weekly XP leaderboard rankings
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/weekly [get]
func (h *LeaderboardHandler) GetWeeklyLeaderboard(c *fiber.Ctx) error {
	return h.getLeaderboard(c, "weekly")
}

// @Summary Get Monthly Leaderboard
// @Description Get monthly XP leaderboard rankings
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/monthly [get]
func (h *LeaderboardHandler) GetMonthlyLeaderboard(c *fiber.Ctx) error {
	return h.getLeaderboard(c, "monthly")
}

// @Summary Get All Time Leaderboard
// @Description Get all-time XP leaderboard rankings
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 50)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/all-time [get]
func (h *LeaderboardHandler) GetAllTimeLeaderboard(c *fiber.Ctx) error {
	return h.getLeaderboard(c, "all_time")
}

func (h *LeaderboardHandler) getLeaderboard(c *fiber.Ctx, period string) error {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	// Leaderboards are public; an auth header only adds the caller's own rank
	var userID string
	if authHeader := c.Get("Authorization"); authHeader != "" {
		if token, err := h.jwtSvc.ExtractTokenFromHeader(authHeader); err == nil {
			if uid, err := h.jwtSvc.VerifyJWTToken(token); err == nil {
				userID = uid
			}
		}
	}

	leaderboard, err := h.leaderboardSvc.GetLeaderboard(c.Context(), period, limit, userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
