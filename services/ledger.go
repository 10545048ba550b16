// services/ledger.go
package services

import (
	"context"
	"errors"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/services/repositories"
	"github.com/readquest-labs/readquest_api/shared"
)

// LedgerService is the append-only XP ledger. Every grant in the system,
// direct or emitted by streaks/quests/achievements, lands here.
type LedgerService struct {
	appContext.DefaultService

	sqlSvc SqlService
	lbSvc  *LeaderboardService

	stateRepo *repositories.GameStateRepository
}

const LEDGER_SVC = "ledger_svc"

func (svc LedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *LedgerService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LedgerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.lbSvc, _ = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.stateRepo = repositories.NewGameStateRepository(svc.sqlSvc.Db())
	return nil
}

// AwardXP appends one immutable XP event and moves the user's total, with the
// level recomputed from the new total. The repository serializes concurrent
// grants per user, so two simultaneous awards never lose an update. A user
// with no game state yet gets one created as part of the same transaction.
func (svc *LedgerService) AwardXP(userID string, amount int, reason, referenceID string) (*dto.AwardXPResult, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "XP grants must be attributed to a user")
	}
	if reason == "" {
		return nil, shared.NewBadRequestError(errors.New("missing reason"), "XP grants require a reason tag")
	}

	var result dto.AwardXPResult
	_, err := svc.stateRepo.UpdateLocked(userID, func(tx *gorm.DB, state *model.UserGameState) error {
		res, err := applyGrant(tx, svc.stateRepo, state, amount, reason, referenceID)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishLeaderboardXP(svc.lbSvc, userID, amount)

	return &result, nil
}

func (svc *LedgerService) GetXPHistory(userID string, limit int) ([]dto.XPEventResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := svc.stateRepo.GetXPHistory(userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.XPEventResponse, len(events))
	for i, event := range events {
		responses[i] = dto.XPEventResponse{
			ID:          event.ID,
			Amount:      event.Amount,
			Reason:      event.Reason,
			ReferenceID: event.ReferenceID,
			CreatedAt:   event.CreatedAt,
		}
	}
	return responses, nil
}

// applyGrant mutates an already-locked game state and appends the matching
// ledger row in the same transaction. Level is always recomputed from XP;
// nothing anywhere sets it directly.
func applyGrant(tx *gorm.DB, repo *repositories.GameStateRepository, state *model.UserGameState, amount int, reason, referenceID string) (dto.AwardXPResult, error) {
	previousLevel := state.Level

	state.XP += amount
	state.Level = shared.CalculateLevel(state.XP)

	if err := repo.AppendEvent(tx, state.UserID, amount, reason, referenceID); err != nil {
		return dto.AwardXPResult{}, err
	}

	result := dto.AwardXPResult{
		NewXP:     state.XP,
		NewLevel:  state.Level,
		LeveledUp: state.Level > previousLevel,
	}

	xpAwardedTotal.WithLabelValues(reason).Add(float64(amount))
	if result.LeveledUp {
		levelUpsTotal.Inc()
		log.WithFields(log.Fields{
			"user_id": state.UserID,
			"level":   state.Level,
		}).Info("User leveled up")
	}

	return result, nil
}

// publishLeaderboardXP pushes a grant into the redis leaderboard. Rankings are
// a projection of the ledger, so a failure here is logged and swallowed.
func publishLeaderboardXP(lb *LeaderboardService, userID string, amount int) {
	if lb == nil || amount == 0 {
		return
	}
	if err := lb.RecordXP(context.Background(), userID, amount); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to update leaderboard")
	}
}
