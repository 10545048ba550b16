package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
)

// AchievementRepository handles the achievement catalog and unlock records.
type AchievementRepository struct {
	BaseRepository
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *AchievementRepository) GetAchievement(achievementID string) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.db.Where("id = ?", achievementID).First(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) GetActiveAchievements() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) GetUserAchievements(userID string) ([]model.UserAchievement, error) {
	var unlocks []model.UserAchievement
	err := r.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocks).Error
	if err != nil {
		return nil, err
	}
	return unlocks, nil
}

func (r *AchievementRepository) HasUnlock(userID, achievementID string) (bool, error) {
	var unlock model.UserAchievement
	err := r.db.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&unlock).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CreateUnlock inserts the one-and-only unlock row for the pair. The unique
// index on (user_id, achievement_id) rejects a concurrent duplicate, which
// callers treat as "already unlocked" rather than a failure.
func (r *AchievementRepository) CreateUnlock(tx *gorm.DB, userID, achievementID string) error {
	id, _ := uuid.NewV7()
	unlock := &model.UserAchievement{
		ID:            id.String(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
		CreatedAt:     time.Now(),
	}
	return tx.Create(unlock).Error
}
