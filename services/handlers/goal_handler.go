package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/shared"
)

type GoalHandler struct {
	goalSvc GoalServiceInterface
}

func NewGoalHandler(goalSvc GoalServiceInterface) *GoalHandler {
	return &GoalHandler{
		goalSvc: goalSvc,
	}
}

// @Summary Set reading goal
// @Description Create or update a reading goal for the authenticated user
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param goalRequest body dto.SetGoalRequest true "Goal definition"
// @Success 200 {object} shared.Response{data=dto.ReadingGoalResponse}
// @Router /api/v1/goals [put]
func (h *GoalHandler) SetGoal(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SetGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	goal, err := h.goalSvc.SetGoal(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", goal)
}

// @Summary Get reading goals
// @Description Get the authenticated user's reading goals with progress
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.ReadingGoalResponse}
// @Router /api/v1/goals [get]
func (h *GoalHandler) GetGoals(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	goals, err := h.goalSvc.GetGoals(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", goals)
}
