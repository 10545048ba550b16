// dto/gamification.go
package dto

import (
	"time"

	"github.com/readquest-labs/readquest_api/shared"
)

// ==================== EVENT REQUESTS ====================

type BookEventRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

type ClubEventRequest struct {
	ClubID string `json:"club_id" validate:"required"`
}

func (r BookEventRequest) Validate() error {
	return validate.Struct(r)
}

func (r ClubEventRequest) Validate() error {
	return validate.Struct(r)
}

// ==================== XP / STATS ====================

type AwardXPResult struct {
	NewXP     int  `json:"new_xp"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

type StreakResult struct {
	Streak    int  `json:"streak"`
	Increased bool `json:"increased"`
}

type XPEventResponse struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserStatsResponse struct {
	UserID         string            `json:"user_id"`
	XP             int               `json:"xp"`
	Level          int               `json:"level"`
	LevelName      string            `json:"level_name"`
	XPProgress     shared.XPProgress `json:"xp_progress"`
	CurrentStreak  int               `json:"current_streak"`
	LongestStreak  int               `json:"longest_streak"`
	StreakFreezes  int               `json:"streak_freezes"`
	LastActiveDate *time.Time        `json:"last_active_date,omitempty"`
}

// EventResult aggregates everything one gamification event produced so a
// caller can render a single consolidated notification.
type EventResult struct {
	XPGained             int                   `json:"xp_gained"`
	NewXP                int                   `json:"new_xp"`
	NewLevel             int                   `json:"new_level"`
	LeveledUp            bool                  `json:"leveled_up"`
	Streak               int                   `json:"streak"`
	StreakIncreased      bool                  `json:"streak_increased"`
	CompletedQuests      []QuestResponse       `json:"completed_quests"`
	UnlockedAchievements []AchievementResponse `json:"unlocked_achievements"`
}

// ==================== ACHIEVEMENTS ====================

type AchievementResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	XPReward    int        `json:"xp_reward"`
	SortOrder   int        `json:"sort_order"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// ==================== QUESTS ====================

type QuestResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	XPReward    int    `json:"xp_reward"`
	TargetCount int    `json:"target_count"`
	Metric      string `json:"metric"`
}

type UserQuestResponse struct {
	ID          string        `json:"id"`
	Quest       QuestResponse `json:"quest"`
	Progress    int           `json:"progress"`
	Completed   bool          `json:"completed"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	AssignedAt  time.Time     `json:"assigned_at"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
}

// ==================== READING GOALS ====================

type SetGoalRequest struct {
	Type   string `json:"type" validate:"required,oneof=yearly_books monthly_books daily_pages daily_minutes"`
	Target int    `json:"target" validate:"required,gt=0"`
	Year   int    `json:"year"`
	Month  int    `json:"month" validate:"min=0,max=12"`
}

func (r SetGoalRequest) Validate() error {
	return validate.Struct(r)
}

type ReadingGoalResponse struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Target   int    `json:"target"`
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	Progress int    `json:"progress"`
}

// ==================== LEADERBOARD ====================

type LeaderboardUserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Rank     int    `json:"rank"`
}

type LeaderboardResponse struct {
	Period      string                    `json:"period"`
	CurrentUser LeaderboardUserResponse   `json:"current_user,omitempty"`
	TopUsers    []LeaderboardUserResponse `json:"top_users"`
}
