package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/readquest-labs/readquest_api/shared"
)

type StatsHandler struct {
	gameSvc   GamificationServiceInterface
	ledgerSvc LedgerServiceInterface
}

func NewStatsHandler(gameSvc GamificationServiceInterface, ledgerSvc LedgerServiceInterface) *StatsHandler {
	return &StatsHandler{
		gameSvc:   gameSvc,
		ledgerSvc: ledgerSvc,
	}
}

// @Summary Get user stats
// @Description Get the authenticated user's XP, level, and streak summary
// @Tags stats
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserStatsResponse}
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	stats, err := h.gameSvc.GetUserStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Get XP history
// @Description Get the authenticated user's recent XP events, newest first
// @Tags stats
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Limit results (default 20, max 100)"
// @Success 200 {object} shared.Response{data=[]dto.XPEventResponse}
// @Router /api/v1/stats/xp-history [get]
func (h *StatsHandler) GetXPHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	history, err := h.ledgerSvc.GetXPHistory(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", history)
}
