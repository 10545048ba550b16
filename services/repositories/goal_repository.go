package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
)

// GoalRepository handles reading goals, plain counters tracked alongside the
// XP system.
type GoalRepository struct {
	BaseRepository
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *GoalRepository) GetGoals(userID string) ([]model.ReadingGoal, error) {
	var goals []model.ReadingGoal
	if err := r.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// UpsertGoal resets progress when the target changes; one goal per
// (user, type, year, month).
func (r *GoalRepository) UpsertGoal(userID, goalType string, target, year, month int) (*model.ReadingGoal, error) {
	var goal model.ReadingGoal
	err := r.db.Where("user_id = ? AND type = ? AND year = ? AND month = ?",
		userID, goalType, year, month).First(&goal).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, _ := uuid.NewV7()
		goal = model.ReadingGoal{
			ID:        id.String(),
			UserID:    userID,
			Type:      goalType,
			Target:    target,
			Year:      year,
			Month:     month,
			Progress:  0,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&goal).Error; err != nil {
			return nil, err
		}
		return &goal, nil
	}
	if err != nil {
		return nil, err
	}

	goal.Target = target
	goal.Progress = 0
	goal.UpdatedAt = time.Now()
	if err := r.db.Save(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// IncrementProgress bumps every matching goal row by delta.
func (r *GoalRepository) IncrementProgress(userID, goalType string, year, month, delta int) error {
	query := r.db.Model(&model.ReadingGoal{}).
		Where("user_id = ? AND type = ? AND year = ?", userID, goalType, year)
	if month > 0 {
		query = query.Where("month = ?", month)
	}
	return query.Updates(map[string]interface{}{
		"progress":   gorm.Expr("progress + ?", delta),
		"updated_at": time.Now(),
	}).Error
}

func (r *GoalRepository) UpdateProgress(goalID string, progress int) error {
	return r.db.Model(&model.ReadingGoal{}).
		Where("id = ?", goalID).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": time.Now(),
		}).Error
}
