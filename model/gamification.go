// model/gamification.go
package model

import (
	"encoding/json"
	"time"
)

// UserGameState holds the per-user progression row. Level is a cached
// projection of XP (recomputed on every grant), never set directly.
type UserGameState struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	UserID         string     `json:"user_id" gorm:"not null;uniqueIndex"`
	XP             int        `json:"xp" gorm:"default:0"`
	Level          int        `json:"level" gorm:"default:1"`
	CurrentStreak  int        `json:"current_streak" gorm:"default:0"`
	LongestStreak  int        `json:"longest_streak" gorm:"default:0"`
	StreakFreezes  int        `json:"streak_freezes" gorm:"default:0"` // declared but consumed by no rule yet
	LastActiveDate *time.Time `json:"last_active_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// XPEvent is one immutable ledger entry. Rows are only ever appended.
type XPEvent struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index:idx_xp_events_user_created"`
	Amount      int       `json:"amount" gorm:"not null"`
	Reason      string    `json:"reason" gorm:"not null"`
	ReferenceID string    `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_xp_events_user_created"`
}

// Achievement is admin-defined catalog data, not mutated by the engine.
type Achievement struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	XPReward    int             `json:"xp_reward" gorm:"default:0"`
	Category    string          `json:"category"` // milestone, streak, genre, engagement, special
	Requirement json.RawMessage `json:"requirement" gorm:"type:text"`
	SortOrder   int             `json:"sort_order" gorm:"default:0"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UserAchievement records a one-time unlock. The composite unique index backs
// the engine's idempotence guarantee at the storage layer.
type UserAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	CreatedAt     time.Time `json:"created_at"`

	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

type Quest struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Type        string          `json:"type"` // daily, weekly, monthly, event
	XPReward    int             `json:"xp_reward" gorm:"default:0"`
	Requirement json.RawMessage `json:"requirement" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UserQuest is a per-user quest instance. Once Completed flips true the row is
// immutable; progress never exceeds the quest requirement count.
type UserQuest struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	QuestID     string     `json:"quest_id" gorm:"not null"`
	Progress    int        `json:"progress" gorm:"default:0"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	AssignedAt  time.Time  `json:"assigned_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Quest Quest `json:"quest" gorm:"foreignKey:QuestID"`
}

type ReadingGoal struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_reading_goal"`
	Type      string    `json:"type" gorm:"not null;uniqueIndex:idx_reading_goal"` // yearly_books, monthly_books, daily_pages, daily_minutes
	Target    int       `json:"target" gorm:"not null"`
	Year      int       `json:"year" gorm:"uniqueIndex:idx_reading_goal"`
	Month     int       `json:"month" gorm:"uniqueIndex:idx_reading_goal"`
	Progress  int       `json:"progress" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requirement is the decoded {count, metric} payload shared by quests and
// achievements.
type Requirement struct {
	Count  int    `json:"count"`
	Metric string `json:"metric"`
}
