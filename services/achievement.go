// services/achievement.go
package services

import (
	"errors"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/services/repositories"
	"github.com/readquest-labs/readquest_api/shared"
)

// AchievementService records one-time unlocks and pays their XP rewards.
// Deciding when an achievement's condition is met is the facade's job; this
// service's contract is strictly "record an unlock idempotently".
type AchievementService struct {
	appContext.DefaultService

	sqlSvc SqlService
	lbSvc  *LeaderboardService

	stateRepo       *repositories.GameStateRepository
	achievementRepo *repositories.AchievementRepository
}

const ACHIEVEMENT_SVC = "achievement_svc"

func (svc AchievementService) Id() string {
	return ACHIEVEMENT_SVC
}

func (svc *AchievementService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AchievementService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.lbSvc, _ = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.stateRepo = repositories.NewGameStateRepository(svc.sqlSvc.Db())
	svc.achievementRepo = repositories.NewAchievementRepository(svc.sqlSvc.Db())
	return nil
}

// Unlock records the unlock and pays the reward once. A repeat call for the
// same pair returns unlocked=false with no side effects; that is a normal
// outcome, not an error.
func (svc *AchievementService) Unlock(userID, achievementID string) (bool, error) {
	if userID == "" {
		return false, shared.NewUnauthorizedError(errors.New("missing user id"), "Achievement unlocks must be attributed to a user")
	}

	already, err := svc.achievementRepo.HasUnlock(userID, achievementID)
	if err != nil {
		return false, err
	}
	if already {
		return false, nil
	}

	achievement, err := svc.achievementRepo.GetAchievement(achievementID)
	if err != nil {
		return false, svc.sqlSvc.HandleError(err)
	}

	var unlocked bool
	_, err = svc.stateRepo.UpdateLocked(userID, func(tx *gorm.DB, state *model.UserGameState) error {
		if err := svc.achievementRepo.CreateUnlock(tx, userID, achievementID); err != nil {
			// A concurrent unlock hit the unique index first; same outcome
			// as the pre-check, nothing to pay.
			if isDuplicateKeyError(err) {
				return nil
			}
			return err
		}

		if _, err := applyGrant(tx, svc.stateRepo, state, achievement.XPReward, shared.ReasonAchievementUnlocked, achievementID); err != nil {
			return err
		}

		achievementUnlocksTotal.Inc()
		unlocked = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if unlocked {
		publishLeaderboardXP(svc.lbSvc, userID, achievement.XPReward)
		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": achievement.Name,
		}).Info("Achievement unlocked")
	}

	return unlocked, nil
}

func (svc *AchievementService) GetAllAchievements() ([]dto.AchievementResponse, error) {
	achievements, err := svc.achievementRepo.GetActiveAchievements()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AchievementResponse, len(achievements))
	for i, achievement := range achievements {
		responses[i] = achievementResponse(&achievement, nil)
	}
	return responses, nil
}

func (svc *AchievementService) GetUserAchievements(userID string) ([]dto.AchievementResponse, error) {
	unlocks, err := svc.achievementRepo.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AchievementResponse, len(unlocks))
	for i, unlock := range unlocks {
		unlockedAt := unlock.UnlockedAt
		responses[i] = achievementResponse(&unlock.Achievement, &unlockedAt)
	}
	return responses, nil
}

func achievementResponse(achievement *model.Achievement, unlockedAt *time.Time) dto.AchievementResponse {
	return dto.AchievementResponse{
		ID:          achievement.ID,
		Name:        achievement.Name,
		Description: achievement.Description,
		Icon:        achievement.Icon,
		Category:    achievement.Category,
		XPReward:    achievement.XPReward,
		SortOrder:   achievement.SortOrder,
		UnlockedAt:  unlockedAt,
	}
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
