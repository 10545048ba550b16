package handlers

import (
	"context"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
)

type GamificationServiceInterface interface {
	OnBookStarted(userID, bookID string) (*dto.EventResult, error)
	OnBookFinished(userID, bookID string) (*dto.EventResult, error)
	OnReviewWritten(userID, bookID string) (*dto.EventResult, error)
	OnBookRated(userID, bookID string) (*dto.EventResult, error)
	OnReadingLogged(userID string) (*dto.EventResult, error)
	OnClubJoined(userID, clubID string) (*dto.EventResult, error)
	OnClubCreated(userID, clubID string) (*dto.EventResult, error)
	GetUserStats(userID string) (*dto.UserStatsResponse, error)
}

type LedgerServiceInterface interface {
	GetXPHistory(userID string, limit int) ([]dto.XPEventResponse, error)
}

type QuestServiceInterface interface {
	GetActiveQuests() ([]dto.QuestResponse, error)
	GetUserQuests(userID string) ([]dto.UserQuestResponse, error)
	AssignQuest(userID, questID string) (*model.UserQuest, error)
}

type AchievementServiceInterface interface {
	GetAllAchievements() ([]dto.AchievementResponse, error)
	GetUserAchievements(userID string) ([]dto.AchievementResponse, error)
}

type GoalServiceInterface interface {
	SetGoal(userID string, req dto.SetGoalRequest) (*dto.ReadingGoalResponse, error)
	GetGoals(userID string) ([]dto.ReadingGoalResponse, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, period string, limit int, currentUserID string) (*dto.LeaderboardResponse, error)
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}
