package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/shared"
)

// AchievementSeeder handles seeding the achievement catalog
type AchievementSeeder struct {
	db *gorm.DB
}

func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

// SeedAchievements inserts the achievement catalog, skipping rows that
// already exist so re-running the tool is safe
func (s *AchievementSeeder) SeedAchievements() error {
	achievements := s.getAchievementCatalog()

	for _, achievement := range achievements {
		var existing model.Achievement
		if err := s.db.Where("id = ?", achievement.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&achievement).Error; err != nil {
					log.Printf("Error creating achievement %s: %v", achievement.Name, err)
					return err
				}
				log.Printf("Created achievement: %s", achievement.Name)
			} else {
				log.Printf("Error checking achievement %s: %v", achievement.Name, err)
				return err
			}
		} else {
			log.Printf("Achievement %s already exists, skipping", achievement.Name)
		}
	}

	log.Println("Achievement seeding completed successfully")
	return nil
}

func (s *AchievementSeeder) getAchievementCatalog() []model.Achievement {
	now := time.Now()

	achievements := []model.Achievement{
		// Milestones
		{
			ID:          "ach_first_book",
			Name:        "First Steps",
			Description: "Finish your first book",
			Icon:        "📖",
			Category:    shared.CategoryMilestone,
			XPReward:    50,
			Requirement: requirement(1, shared.MetricBooksRead),
			SortOrder:   1,
		},
		{
			ID:          "ach_bookworm",
			Name:        "Bookworm",
			Description: "Finish 10 books",
			Icon:        "🐛",
			Category:    shared.CategoryMilestone,
			XPReward:    100,
			Requirement: requirement(10, shared.MetricBooksRead),
			SortOrder:   2,
		},
		{
			ID:          "ach_bibliophile",
			Name:        "Bibliophile",
			Description: "Finish 25 books",
			Icon:        "📚",
			Category:    shared.CategoryMilestone,
			XPReward:    250,
			Requirement: requirement(25, shared.MetricBooksRead),
			SortOrder:   3,
		},
		{
			ID:          "ach_library_legend",
			Name:        "Library Legend",
			Description: "Finish 100 books",
			Icon:        "🏛️",
			Category:    shared.CategoryMilestone,
			XPReward:    1000,
			Requirement: requirement(100, shared.MetricBooksRead),
			SortOrder:   4,
		},

		// Streaks
		{
			ID:          "ach_streak_week",
			Name:        "Week One",
			Description: "Keep a 7-day reading streak",
			Icon:        "🔥",
			Category:    shared.CategoryStreak,
			XPReward:    75,
			Requirement: requirement(7, shared.MetricStreakDays),
			SortOrder:   10,
		},
		{
			ID:          "ach_streak_month",
			Name:        "Monthly Devotion",
			Description: "Keep a 30-day reading streak",
			Icon:        "🌕",
			Category:    shared.CategoryStreak,
			XPReward:    300,
			Requirement: requirement(30, shared.MetricStreakDays),
			SortOrder:   11,
		},
		{
			ID:          "ach_streak_hundred",
			Name:        "Century Reader",
			Description: "Keep a 100-day reading streak",
			Icon:        "💯",
			Category:    shared.CategoryStreak,
			XPReward:    1000,
			Requirement: requirement(100, shared.MetricStreakDays),
			SortOrder:   12,
		},

		// Engagement
		{
			ID:          "ach_first_review",
			Name:        "Critic in Training",
			Description: "Write your first review",
			Icon:        "✍️",
			Category:    shared.CategoryEngagement,
			XPReward:    25,
			Requirement: requirement(1, shared.MetricReviewsWritten),
			SortOrder:   20,
		},
		{
			ID:          "ach_ten_reviews",
			Name:        "Seasoned Critic",
			Description: "Write 10 reviews",
			Icon:        "🖋️",
			Category:    shared.CategoryEngagement,
			XPReward:    150,
			Requirement: requirement(10, shared.MetricReviewsWritten),
			SortOrder:   21,
		},
		{
			ID:          "ach_club_member",
			Name:        "Joiner",
			Description: "Join a book club",
			Icon:        "🤝",
			Category:    shared.CategoryEngagement,
			XPReward:    25,
			Requirement: requirement(1, shared.MetricClubsJoined),
			SortOrder:   22,
		},
		{
			ID:          "ach_club_founder",
			Name:        "Founder",
			Description: "Create a book club",
			Icon:        "🏗️",
			Category:    shared.CategoryEngagement,
			XPReward:    50,
			Requirement: requirement(1, shared.MetricClubsCreated),
			SortOrder:   23,
		},
		{
			ID:          "ach_quest_hunter",
			Name:        "Quest Hunter",
			Description: "Complete 10 quests",
			Icon:        "🗺️",
			Category:    shared.CategoryEngagement,
			XPReward:    200,
			Requirement: requirement(10, shared.MetricQuestsCompleted),
			SortOrder:   24,
		},

		// Special
		{
			ID:          "ach_level_ten",
			Name:        "Grand Reader",
			Description: "Reach level 10",
			Icon:        "👑",
			Category:    shared.CategorySpecial,
			XPReward:    500,
			Requirement: requirement(10, shared.MetricLevel),
			SortOrder:   30,
		},
	}

	for i := range achievements {
		achievements[i].IsActive = true
		achievements[i].CreatedAt = now
		achievements[i].UpdatedAt = now
	}

	return achievements
}

func requirement(count int, metric string) json.RawMessage {
	raw, _ := json.Marshal(model.Requirement{Count: count, Metric: metric})
	return raw
}
