package seeders

import (
	"log"

	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll migrates the catalog tables and runs all seeders
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.db.AutoMigrate(&model.Achievement{}, &model.Quest{}); err != nil {
		return err
	}

	achievementSeeder := NewAchievementSeeder(s.db)
	if err := achievementSeeder.SeedAchievements(); err != nil {
		log.Printf("Achievement seeding failed: %v", err)
		return err
	}

	questSeeder := NewQuestSeeder(s.db)
	if err := questSeeder.SeedQuests(); err != nil {
		log.Printf("Quest seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedAchievementsOnly() error {
	if err := s.db.AutoMigrate(&model.Achievement{}); err != nil {
		return err
	}
	achievementSeeder := NewAchievementSeeder(s.db)
	return achievementSeeder.SeedAchievements()
}

func (s *MainSeeder) SeedQuestsOnly() error {
	if err := s.db.AutoMigrate(&model.Quest{}); err != nil {
		return err
	}
	questSeeder := NewQuestSeeder(s.db)
	return questSeeder.SeedQuests()
}
