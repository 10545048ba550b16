// services/streak.go
package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/services/repositories"
	"github.com/readquest-labs/readquest_api/shared"
)

// StreakService tracks consecutive active days per user. All date comparisons
// use UTC calendar days so the streak is not sensitive to the caller's locale.
//
// The streak_freezes field on UserGameState is carried in the data model but
// no rule consumes one to save a broken streak yet; a missed day always
// resets.
type StreakService struct {
	appContext.DefaultService

	sqlSvc SqlService
	lbSvc  *LeaderboardService

	stateRepo *repositories.GameStateRepository

	// now is swappable so tests can walk across calendar days.
	now func() time.Time
}

const STREAK_SVC = "streak_svc"

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Configure(ctx *appContext.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *StreakService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.lbSvc, _ = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.stateRepo = repositories.NewGameStateRepository(svc.sqlSvc.Db())
	return nil
}

// TouchActivity registers one qualifying action for today. At most one streak
// increment happens per calendar day; the first touch of the day pays the
// streak bonus through the ledger (min(streak*5, 50), capped from day 10 on).
func (svc *StreakService) TouchActivity(userID string) (*dto.StreakResult, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Streak updates must be attributed to a user")
	}

	now := svc.now().UTC()
	today := utcDate(now)

	var result dto.StreakResult
	var paidBonus int
	_, err := svc.stateRepo.UpdateLocked(userID, func(tx *gorm.DB, state *model.UserGameState) error {
		if state.LastActiveDate != nil && utcDate(*state.LastActiveDate).Equal(today) {
			// Already counted today
			result = dto.StreakResult{Streak: state.CurrentStreak, Increased: false}
			return nil
		}

		if state.LastActiveDate != nil && utcDate(*state.LastActiveDate).Equal(today.AddDate(0, 0, -1)) {
			state.CurrentStreak++
		} else {
			// First activity ever, or a gap of 2+ days broke the streak
			state.CurrentStreak = 1
		}

		if state.CurrentStreak > state.LongestStreak {
			state.LongestStreak = state.CurrentStreak
		}
		state.LastActiveDate = &now

		bonus := state.CurrentStreak * shared.XPStreakBonusPerDay
		if bonus > shared.XPStreakBonusCap {
			bonus = shared.XPStreakBonusCap
		}
		if _, err := applyGrant(tx, svc.stateRepo, state, bonus, shared.ReasonDailyStreak, ""); err != nil {
			return err
		}
		paidBonus = bonus

		streakIncrementsTotal.Inc()
		result = dto.StreakResult{Streak: state.CurrentStreak, Increased: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Increased {
		publishLeaderboardXP(svc.lbSvc, userID, paidBonus)
	}

	return &result, nil
}

// utcDate truncates a timestamp to its UTC calendar day.
func utcDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
