package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/shared"
)

// ProgressionHandler serves the achievement and quest catalog plus the
// authenticated user's progress against both.
type ProgressionHandler struct {
	achievementSvc AchievementServiceInterface
	questSvc       QuestServiceInterface
}

func NewProgressionHandler(achievementSvc AchievementServiceInterface, questSvc QuestServiceInterface) *ProgressionHandler {
	return &ProgressionHandler{
		achievementSvc: achievementSvc,
		questSvc:       questSvc,
	}
}

// @Summary List achievements
// @Description Get the full active achievement catalog
// @Tags achievements
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.AchievementResponse}
// @Router /api/v1/achievements [get]
func (h *ProgressionHandler) GetAchievements(c *fiber.Ctx) error {
	achievements, err := h.achievementSvc.GetAllAchievements()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", achievements)
}

// @Summary Get user achievements
// @Description Get the achievements the authenticated user has unlocked
// @Tags achievements
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.AchievementResponse}
// @Router /api/v1/achievements/me [get]
func (h *ProgressionHandler) GetUserAchievements(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	achievements, err := h.achievementSvc.GetUserAchievements(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", achievements)
}

// @Summary List quests
// @Description Get the active quest catalog
// @Tags quests
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.QuestResponse}
// @Router /api/v1/quests [get]
func (h *ProgressionHandler) GetQuests(c *fiber.Ctx) error {
	quests, err := h.questSvc.GetActiveQuests()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", quests)
}

// @Summary Get user quests
// @Description Get the authenticated user's quest assignments and progress
// @Tags quests
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.UserQuestResponse}
// @Router /api/v1/quests/me [get]
func (h *ProgressionHandler) GetUserQuests(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	quests, err := h.questSvc.GetUserQuests(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", quests)
}

// @Summary Accept quest
// @Description Assign an active quest to the authenticated user
// @Tags quests
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Quest ID"
// @Success 201 {object} shared.Response{data=dto.UserQuestResponse}
// @Router /api/v1/quests/{id}/accept [post]
func (h *ProgressionHandler) AcceptQuest(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	questID := c.Params("id")
	if questID == "" {
		return shared.NewBadRequestError(nil, "Quest ID is required")
	}

	userQuest, err := h.questSvc.AssignQuest(userID, questID)
	if err != nil {
		return err
	}

	resp := dto.UserQuestResponse{
		ID:         userQuest.ID,
		Progress:   userQuest.Progress,
		Completed:  userQuest.Completed,
		AssignedAt: userQuest.AssignedAt,
		ExpiresAt:  userQuest.ExpiresAt,
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Quest accepted", resp)
}
