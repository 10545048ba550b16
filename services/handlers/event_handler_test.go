package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/shared"
)

// mockGameService records the last call and returns a canned result.
type mockGameService struct {
	lastEvent string
	lastUser  string
	lastRef   string
	result    *dto.EventResult
	err       error
}

func (m *mockGameService) record(event, userID, refID string) (*dto.EventResult, error) {
	m.lastEvent = event
	m.lastUser = userID
	m.lastRef = refID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockGameService) OnBookStarted(userID, bookID string) (*dto.EventResult, error) {
	return m.record("book_started", userID, bookID)
}

func (m *mockGameService) OnBookFinished(userID, bookID string) (*dto.EventResult, error) {
	return m.record("book_finished", userID, bookID)
}

func (m *mockGameService) OnReviewWritten(userID, bookID string) (*dto.EventResult, error) {
	return m.record("review_written", userID, bookID)
}

func (m *mockGameService) OnBookRated(userID, bookID string) (*dto.EventResult, error) {
	return m.record("book_rated", userID, bookID)
}

func (m *mockGameService) OnReadingLogged(userID string) (*dto.EventResult, error) {
	return m.record("reading_logged", userID, "")
}

func (m *mockGameService) OnClubJoined(userID, clubID string) (*dto.EventResult, error) {
	return m.record("club_joined", userID, clubID)
}

func (m *mockGameService) OnClubCreated(userID, clubID string) (*dto.EventResult, error) {
	return m.record("club_created", userID, clubID)
}

func (m *mockGameService) GetUserStats(userID string) (*dto.UserStatsResponse, error) {
	return &dto.UserStatsResponse{UserID: userID, Level: 1}, nil
}

func newTestApp(gameSvc GamificationServiceInterface) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseInternalError(c, err)
		},
	})

	// Stand-in for the JWT middleware
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, "user-1")
		return c.Next()
	})

	handler := NewEventHandler(gameSvc)
	app.Post("/events/book-finished", handler.BookFinished)
	app.Post("/events/reading-logged", handler.ReadingLogged)
	app.Post("/events/club-joined", handler.ClubJoined)

	return app
}

func TestBookFinishedHandler(t *testing.T) {
	mock := &mockGameService{
		result: &dto.EventResult{XPGained: 105, NewXP: 105, NewLevel: 2, LeveledUp: true},
	}
	app := newTestApp(mock)

	body, _ := json.Marshal(dto.BookEventRequest{BookID: "book-1"})
	req := httptest.NewRequest("POST", "/events/book-finished", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, "book_finished", mock.lastEvent)
	assert.Equal(t, "user-1", mock.lastUser)
	assert.Equal(t, "book-1", mock.lastRef)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Code int             `json:"code"`
		Data dto.EventResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, 200, envelope.Code)
	assert.Equal(t, 105, envelope.Data.XPGained)
	assert.True(t, envelope.Data.LeveledUp)
}

func TestBookFinishedHandlerRejectsMissingBookID(t *testing.T) {
	mock := &mockGameService{result: &dto.EventResult{}}
	app := newTestApp(mock)

	req := httptest.NewRequest("POST", "/events/book-finished", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Empty(t, mock.lastEvent)
}

func TestReadingLoggedHandlerNeedsNoBody(t *testing.T) {
	mock := &mockGameService{result: &dto.EventResult{XPGained: 15}}
	app := newTestApp(mock)

	req := httptest.NewRequest("POST", "/events/reading-logged", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "reading_logged", mock.lastEvent)
}

func TestClubJoinedHandlerPropagatesServiceErrors(t *testing.T) {
	mock := &mockGameService{
		err: shared.NewUnauthorizedError(nil, "Gamification events must be attributed to a user"),
	}
	app := newTestApp(mock)

	body, _ := json.Marshal(dto.ClubEventRequest{ClubID: "club-1"})
	req := httptest.NewRequest("POST", "/events/club-joined", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
