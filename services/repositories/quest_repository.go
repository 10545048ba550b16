package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
)

// QuestRepository handles the quest catalog and per-user quest instances.
type QuestRepository struct {
	BaseRepository
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *QuestRepository) GetQuest(questID string) (*model.Quest, error) {
	var quest model.Quest
	if err := r.db.Where("id = ?", questID).First(&quest).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}

func (r *QuestRepository) GetActiveQuests() ([]model.Quest, error) {
	var quests []model.Quest
	if err := r.db.Where("is_active = ?", true).Find(&quests).Error; err != nil {
		return nil, err
	}
	return quests, nil
}

func (r *QuestRepository) GetUserQuests(userID string) ([]model.UserQuest, error) {
	var userQuests []model.UserQuest
	err := r.db.Preload("Quest").
		Where("user_id = ?", userID).
		Order("assigned_at DESC").
		Find(&userQuests).Error
	if err != nil {
		return nil, err
	}
	return userQuests, nil
}

// GetOpenUserQuests returns incomplete, unexpired instances with their quest
// rows preloaded. Metric matching happens in the service since requirements
// live in a JSON payload. Callers mutating progress must pass the tx holding
// the user's state lock so the read and the write serialize together.
func (r *QuestRepository) GetOpenUserQuests(tx *gorm.DB, userID string, now time.Time) ([]model.UserQuest, error) {
	var userQuests []model.UserQuest
	err := tx.Preload("Quest").
		Where("user_id = ? AND completed = ?", userID, false).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Find(&userQuests).Error
	if err != nil {
		return nil, err
	}
	return userQuests, nil
}

func (r *QuestRepository) AssignQuest(userID, questID string, expiresAt *time.Time) (*model.UserQuest, error) {
	id, _ := uuid.NewV7()
	userQuest := &model.UserQuest{
		ID:         id.String(),
		UserID:     userID,
		QuestID:    questID,
		Progress:   0,
		Completed:  false,
		AssignedAt: time.Now(),
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.db.Create(userQuest).Error; err != nil {
		return nil, err
	}
	return userQuest, nil
}

func (r *QuestRepository) UpdateProgress(tx *gorm.DB, userQuestID string, progress int) error {
	return tx.Model(&model.UserQuest{}).
		Where("id = ? AND completed = ?", userQuestID, false).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": time.Now(),
		}).Error
}

// MarkCompleted flips completed exactly once. The WHERE completed = false
// guard means a concurrent second completion affects zero rows, and the
// caller must not pay the XP reward in that case.
func (r *QuestRepository) MarkCompleted(tx *gorm.DB, userQuestID string, progress int, now time.Time) (bool, error) {
	result := tx.Model(&model.UserQuest{}).
		Where("id = ? AND completed = ?", userQuestID, false).
		Updates(map[string]interface{}{
			"progress":     progress,
			"completed":    true,
			"completed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *QuestRepository) CountCompleted(userID string) (int, error) {
	var count int64
	err := r.db.Model(&model.UserQuest{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeleteExpired removes incomplete instances whose window has closed.
func (r *QuestRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("completed = ? AND expires_at IS NOT NULL AND expires_at <= ?", false, now).
		Delete(&model.UserQuest{})
	return result.RowsAffected, result.Error
}
