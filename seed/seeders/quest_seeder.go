package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/shared"
)

// QuestSeeder handles seeding the quest catalog
type QuestSeeder struct {
	db *gorm.DB
}

func NewQuestSeeder(db *gorm.DB) *QuestSeeder {
	return &QuestSeeder{db: db}
}

// SeedQuests inserts the quest catalog, skipping rows that already exist
func (s *QuestSeeder) SeedQuests() error {
	quests := s.getQuestCatalog()

	for _, quest := range quests {
		var existing model.Quest
		if err := s.db.Where("id = ?", quest.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&quest).Error; err != nil {
					log.Printf("Error creating quest %s: %v", quest.Name, err)
					return err
				}
				log.Printf("Created quest: %s", quest.Name)
			} else {
				log.Printf("Error checking quest %s: %v", quest.Name, err)
				return err
			}
		} else {
			log.Printf("Quest %s already exists, skipping", quest.Name)
		}
	}

	log.Println("Quest seeding completed successfully")
	return nil
}

func (s *QuestSeeder) getQuestCatalog() []model.Quest {
	now := time.Now()

	quests := []model.Quest{
		{
			ID:          "quest_daily_log",
			Name:        "Daily Pages",
			Description: "Log a reading session today",
			Type:        shared.QuestTypeDaily,
			XPReward:    15,
			Requirement: requirement(1, shared.MetricReadingLogs),
		},
		{
			ID:          "quest_daily_rate",
			Name:        "Quick Take",
			Description: "Rate a book today",
			Type:        shared.QuestTypeDaily,
			XPReward:    10,
			Requirement: requirement(1, shared.MetricBooksRated),
		},
		{
			ID:          "quest_weekly_finish",
			Name:        "One Down",
			Description: "Finish a book this week",
			Type:        shared.QuestTypeWeekly,
			XPReward:    75,
			Requirement: requirement(1, shared.MetricBooksRead),
		},
		{
			ID:          "quest_weekly_logs",
			Name:        "Steady Reader",
			Description: "Log five reading sessions this week",
			Type:        shared.QuestTypeWeekly,
			XPReward:    50,
			Requirement: requirement(5, shared.MetricReadingLogs),
		},
		{
			ID:          "quest_weekly_review",
			Name:        "Share Your Thoughts",
			Description: "Write a review this week",
			Type:        shared.QuestTypeWeekly,
			XPReward:    40,
			Requirement: requirement(1, shared.MetricReviewsWritten),
		},
		{
			ID:          "quest_monthly_finish",
			Name:        "Monthly Stack",
			Description: "Finish three books this month",
			Type:        shared.QuestTypeMonthly,
			XPReward:    200,
			Requirement: requirement(3, shared.MetricBooksRead),
		},
		{
			ID:          "quest_monthly_social",
			Name:        "Book Club Curious",
			Description: "Join a book club this month",
			Type:        shared.QuestTypeMonthly,
			XPReward:    100,
			Requirement: requirement(1, shared.MetricClubsJoined),
		},
	}

	for i := range quests {
		quests[i].IsActive = true
		quests[i].CreatedAt = now
		quests[i].UpdatedAt = now
	}

	return quests
}
