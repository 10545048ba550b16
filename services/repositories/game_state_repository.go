package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readquest-labs/readquest_api/model"
)

// GameStateRepository handles UserGameState rows and the XP event ledger.
type GameStateRepository struct {
	BaseRepository
}

func NewGameStateRepository(db *gorm.DB) *GameStateRepository {
	return &GameStateRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// UpdateLocked runs fn against the user's game state inside one transaction,
// holding a row lock for the duration. Concurrent updates for the same user
// serialize here; this is the only correct way to mutate xp, level or the
// streak fields. The row is created on first use, so a user's first
// gamification event implicitly provisions their state.
func (r *GameStateRepository) UpdateLocked(userID string, fn func(tx *gorm.DB, state *model.UserGameState) error) (*model.UserGameState, error) {
	var out *model.UserGameState

	err := r.db.Transaction(func(tx *gorm.DB) error {
		state, err := r.lockOrCreateState(tx, userID)
		if err != nil {
			return err
		}

		if err := fn(tx, state); err != nil {
			return err
		}

		state.UpdatedAt = time.Now()
		if err := tx.Save(state).Error; err != nil {
			return err
		}

		out = state
		return nil
	})

	return out, err
}

func (r *GameStateRepository) lockOrCreateState(tx *gorm.DB, userID string) (*model.UserGameState, error) {
	var state model.UserGameState
	query := tx.Where("user_id = ?", userID)
	if tx.Dialector.Name() != "sqlite" {
		// sqlite has no FOR UPDATE; its single-writer transactions already
		// serialize state mutations
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	state = model.UserGameState{
		ID:        id.String(),
		UserID:    userID,
		XP:        0,
		Level:     1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := tx.Create(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *GameStateRepository) GetState(userID string) (*model.UserGameState, error) {
	var state model.UserGameState
	if err := r.db.Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// AppendEvent inserts one immutable ledger row. Must be called with the tx
// holding the state lock so the grant and the total move together.
func (r *GameStateRepository) AppendEvent(tx *gorm.DB, userID string, amount int, reason, referenceID string) error {
	id, _ := uuid.NewV7()
	event := &model.XPEvent{
		ID:          id.String(),
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}
	return tx.Create(event).Error
}

func (r *GameStateRepository) GetXPHistory(userID string, limit int) ([]model.XPEvent, error) {
	var events []model.XPEvent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountEventsByReason returns how many ledger entries each reason tag has for
// a user. Achievement evaluation reads its aggregate stats from this.
func (r *GameStateRepository) CountEventsByReason(userID string) (map[string]int, error) {
	type reasonCount struct {
		Reason string
		Total  int
	}

	var rows []reasonCount
	err := r.db.Model(&model.XPEvent{}).
		Select("reason, COUNT(*) as total").
		Where("user_id = ?", userID).
		Group("reason").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Reason] = row.Total
	}
	return counts, nil
}

func (r *GameStateRepository) GetTopByXP(limit int) ([]model.UserGameState, error) {
	var states []model.UserGameState
	err := r.db.Order("xp DESC").Limit(limit).Find(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}
