// services/quest.go
package services

import (
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/services/repositories"
	"github.com/readquest-labs/readquest_api/shared"
)

// QuestService tracks per-user progress toward time-boxed objectives and pays
// each quest's XP reward exactly once on completion.
type QuestService struct {
	appContext.DefaultService

	sqlSvc SqlService
	lbSvc  *LeaderboardService

	stateRepo *repositories.GameStateRepository
	questRepo *repositories.QuestRepository

	stopSweeper chan struct{}
}

const QUEST_SVC = "quest_svc"

func (svc QuestService) Id() string {
	return QUEST_SVC
}

func (svc *QuestService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *QuestService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.lbSvc, _ = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.stateRepo = repositories.NewGameStateRepository(svc.sqlSvc.Db())
	svc.questRepo = repositories.NewQuestRepository(svc.sqlSvc.Db())

	svc.stopSweeper = make(chan struct{})
	go svc.startExpirySweeper()

	return nil
}

func (svc *QuestService) Shutdown() {
	if svc.stopSweeper != nil {
		close(svc.stopSweeper)
	}
}

// startExpirySweeper retires incomplete quest instances whose window has
// closed, once shortly after midnight and hourly thereafter.
func (svc *QuestService) startExpirySweeper() {
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	timer := time.NewTimer(nextMidnight.Sub(now))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-svc.stopSweeper:
		return
	}
	svc.sweepExpired()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			svc.sweepExpired()
		case <-svc.stopSweeper:
			return
		}
	}
}

func (svc *QuestService) sweepExpired() {
	removed, err := svc.questRepo.DeleteExpired(time.Now())
	if err != nil {
		log.WithError(err).Error("Failed to sweep expired quests")
		return
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("Swept expired quest instances")
	}
}

// RecordProgress advances every open quest instance whose requirement metric
// matches, clamped at the requirement count. The whole read-modify-write runs
// under the user's state lock so concurrent events for the same user serialize
// and no increment is lost. Instances that reach their count complete exactly
// once: the completion flip shares the same transaction as the XP grant, and
// the flip is guarded so a concurrent duplicate pays nothing.
func (svc *QuestService) RecordProgress(userID, metric string, delta int) ([]model.UserQuest, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Quest progress must be attributed to a user")
	}
	if delta <= 0 {
		return nil, nil
	}

	now := time.Now()
	var completed []model.UserQuest
	var paidXP int

	_, err := svc.stateRepo.UpdateLocked(userID, func(tx *gorm.DB, state *model.UserGameState) error {
		open, err := svc.questRepo.GetOpenUserQuests(tx, userID, now)
		if err != nil {
			return err
		}

		for i := range open {
			userQuest := &open[i]

			requirement, err := decodeRequirement(userQuest.Quest.Requirement)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"quest_id": userQuest.QuestID,
				}).Warn("Malformed quest requirement, treating as never satisfied")
				continue
			}
			if requirement.Metric != metric {
				continue
			}

			progress := userQuest.Progress + delta
			if progress > requirement.Count {
				progress = requirement.Count
			}

			if progress < requirement.Count {
				if err := svc.questRepo.UpdateProgress(tx, userQuest.ID, progress); err != nil {
					return err
				}
				continue
			}

			flipped, err := svc.questRepo.MarkCompleted(tx, userQuest.ID, progress, now)
			if err != nil {
				return err
			}
			if !flipped {
				// Another writer completed it first; nothing more to pay.
				continue
			}

			if _, err := applyGrant(tx, svc.stateRepo, state, userQuest.Quest.XPReward, shared.ReasonQuestCompleted, userQuest.QuestID); err != nil {
				return err
			}

			questCompletionsTotal.Inc()
			paidXP += userQuest.Quest.XPReward

			userQuest.Progress = progress
			userQuest.Completed = true
			userQuest.CompletedAt = &now
			completed = append(completed, *userQuest)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if paidXP > 0 {
		publishLeaderboardXP(svc.lbSvc, userID, paidXP)
	}

	return completed, nil
}

// AssignQuest materializes a per-user instance of a catalog quest. When and
// for whom instances get created is caller policy; the expiry window simply
// follows the quest type.
func (svc *QuestService) AssignQuest(userID, questID string) (*model.UserQuest, error) {
	quest, err := svc.questRepo.GetQuest(questID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !quest.IsActive {
		return nil, shared.NewBadRequestError(errors.New("quest inactive"), "Quest is not active")
	}

	expiresAt := questExpiry(quest.Type, time.Now())
	return svc.questRepo.AssignQuest(userID, questID, expiresAt)
}

func questExpiry(questType string, now time.Time) *time.Time {
	now = now.UTC()
	var expires time.Time

	switch questType {
	case shared.QuestTypeDaily:
		expires = utcDate(now).AddDate(0, 0, 1)
	case shared.QuestTypeWeekly:
		expires = utcDate(now).AddDate(0, 0, 7)
	case shared.QuestTypeMonthly:
		expires = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	default:
		// Event quests run until the catalog row is deactivated
		return nil
	}

	return &expires
}

func (svc *QuestService) GetActiveQuests() ([]dto.QuestResponse, error) {
	quests, err := svc.questRepo.GetActiveQuests()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuestResponse, 0, len(quests))
	for _, quest := range quests {
		responses = append(responses, questResponse(&quest))
	}
	return responses, nil
}

func (svc *QuestService) GetUserQuests(userID string) ([]dto.UserQuestResponse, error) {
	userQuests, err := svc.questRepo.GetUserQuests(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserQuestResponse, 0, len(userQuests))
	for i := range userQuests {
		responses = append(responses, userQuestResponse(&userQuests[i]))
	}
	return responses, nil
}

func questResponse(quest *model.Quest) dto.QuestResponse {
	response := dto.QuestResponse{
		ID:          quest.ID,
		Name:        quest.Name,
		Description: quest.Description,
		Type:        quest.Type,
		XPReward:    quest.XPReward,
	}
	if requirement, err := decodeRequirement(quest.Requirement); err == nil {
		response.TargetCount = requirement.Count
		response.Metric = requirement.Metric
	}
	return response
}

func userQuestResponse(userQuest *model.UserQuest) dto.UserQuestResponse {
	return dto.UserQuestResponse{
		ID:          userQuest.ID,
		Quest:       questResponse(&userQuest.Quest),
		Progress:    userQuest.Progress,
		Completed:   userQuest.Completed,
		CompletedAt: userQuest.CompletedAt,
		AssignedAt:  userQuest.AssignedAt,
		ExpiresAt:   userQuest.ExpiresAt,
	}
}

// decodeRequirement parses the {count, metric} payload carried by quests and
// achievements. Anything malformed is reported so evaluation can skip the row
// without failing the rest.
func decodeRequirement(raw []byte) (*model.Requirement, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty requirement")
	}

	var requirement model.Requirement
	if err := shared.JSONUnmarshal(raw, &requirement); err != nil {
		return nil, err
	}
	if requirement.Count <= 0 {
		return nil, errors.New("requirement count must be positive")
	}
	if requirement.Metric == "" {
		return nil, errors.New("requirement metric missing")
	}
	return &requirement, nil
}
