package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/shared"
)

// EventHandler exposes the gamification event ingestion endpoints. Each
// endpoint forwards one user action into the engine and returns the
// consolidated result for the client to render.
type EventHandler struct {
	gameSvc GamificationServiceInterface
}

func NewEventHandler(gameSvc GamificationServiceInterface) *EventHandler {
	return &EventHandler{
		gameSvc: gameSvc,
	}
}

// @Summary Record book started
// @Description Record that the user started reading a book
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.BookEventRequest true "Book reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/book-started [post]
func (h *EventHandler) BookStarted(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.BookEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnBookStarted(userID, req.BookID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record book finished
// @Description Record that the user finished a book
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.BookEventRequest true "Book reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/book-finished [post]
func (h *EventHandler) BookFinished(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.BookEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnBookFinished(userID, req.BookID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record review written
// @Description Record that the user wrote a review for a book
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.BookEventRequest true "Book reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/review-written [post]
func (h *EventHandler) ReviewWritten(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.BookEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnReviewWritten(userID, req.BookID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record book rated
// @Description Record that the user rated a book
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.BookEventRequest true "Book reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/book-rated [post]
func (h *EventHandler) BookRated(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.BookEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnBookRated(userID, req.BookID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record reading session
// @Description Record a reading session log for today
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/reading-logged [post]
func (h *EventHandler) ReadingLogged(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	result, err := h.gameSvc.OnReadingLogged(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record club joined
// @Description Record that the user joined a book club
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.ClubEventRequest true "Club reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/club-joined [post]
func (h *EventHandler) ClubJoined(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ClubEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnClubJoined(userID, req.ClubID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Record club created
// @Description Record that the user created a book club
// @Tags events
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param eventRequest body dto.ClubEventRequest true "Club reference"
// @Success 200 {object} shared.Response{data=dto.EventResult}
// @Router /api/v1/events/club-created [post]
func (h *EventHandler) ClubCreated(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ClubEventRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	result, err := h.gameSvc.OnClubCreated(userID, req.ClubID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}
