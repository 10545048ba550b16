// services/gamification.go
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

// GamificationService is the single entry point external features call when a
// user does something worth rewarding. One logical event fans out in a fixed
// order: direct event XP, then the streak touch, then quest progress, then
// achievement re-evaluation. The order matters: a "reach a 7-day streak"
// achievement must see the streak update from the same event.
//
// Gamification is a best-effort side effect of the triggering action. A
// failed call here must not fail the action itself; callers log and move on.
type GamificationService struct {
	appContext.DefaultService

	sqlSvc         SqlService
	ledgerSvc      *LedgerService
	streakSvc      *StreakService
	questSvc       *QuestService
	achievementSvc *AchievementService
	goalSvc        *GoalService

	stateRepo       *repositories.GameStateRepository
	achievementRepo *repositories.AchievementRepository
	questRepo       *repositories.QuestRepository
}

const GAMIFICATION_SVC = "gamification_svc"

func (svc GamificationService) Id() string {
	return GAMIFICATION_SVC
}

func (svc *GamificationService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *GamificationService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(SqlService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.questSvc = svc.Service(QUEST_SVC).(*QuestService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.goalSvc = svc.Service(GOAL_SVC).(*GoalService)

	svc.stateRepo = repositories.NewGameStateRepository(svc.sqlSvc.Db())
	svc.achievementRepo = repositories.NewAchievementRepository(svc.sqlSvc.Db())
	svc.questRepo = repositories.NewQuestRepository(svc.sqlSvc.Db())
	return nil
}

// gameEvent describes how one external event maps onto the engine.
type gameEvent struct {
	xp          int
	reason      string
	referenceID string

	touchStreak   bool
	questMetrics  []string
	evaluate      bool
	bumpBookGoals bool
}

// ==================== EVENT ENTRY POINTS ====================

func (svc *GamificationService) OnBookStarted(userID, bookID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPStartBook,
		reason:       shared.ReasonStartedBook,
		referenceID:  bookID,
		touchStreak:  true,
		questMetrics: []string{shared.MetricBooksStarted},
	})
}

func (svc *GamificationService) OnBookFinished(userID, bookID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:            shared.XPFinishBook,
		reason:        shared.ReasonFinishedBook,
		referenceID:   bookID,
		touchStreak:   true,
		questMetrics:  []string{shared.MetricBooksRead},
		evaluate:      true,
		bumpBookGoals: true,
	})
}

func (svc *GamificationService) OnReviewWritten(userID, bookID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPWriteReview,
		reason:       shared.ReasonWroteReview,
		referenceID:  bookID,
		questMetrics: []string{shared.MetricReviewsWritten},
		evaluate:     true,
	})
}

func (svc *GamificationService) OnBookRated(userID, bookID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPRateBook,
		reason:       shared.ReasonRatedBook,
		referenceID:  bookID,
		questMetrics: []string{shared.MetricBooksRated},
		evaluate:     true,
	})
}

func (svc *GamificationService) OnReadingLogged(userID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPLogReading,
		reason:       shared.ReasonLoggedReading,
		touchStreak:  true,
		questMetrics: []string{shared.MetricReadingLogs},
	})
}

func (svc *GamificationService) OnClubJoined(userID, clubID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPJoinClub,
		reason:       shared.ReasonJoinedClub,
		referenceID:  clubID,
		questMetrics: []string{shared.MetricClubsJoined},
		evaluate:     true,
	})
}

func (svc *GamificationService) OnClubCreated(userID, clubID string) (*dto.EventResult, error) {
	return svc.processEvent(userID, gameEvent{
		xp:           shared.XPCreateClub,
		reason:       shared.ReasonCreatedClub,
		referenceID:  clubID,
		questMetrics: []string{shared.MetricClubsCreated},
		evaluate:     true,
	})
}

// ==================== ORCHESTRATION ====================

func (svc *GamificationService) processEvent(userID string, event gameEvent) (*dto.EventResult, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Gamification events must be attributed to a user")
	}

	initialXP, initialLevel := 0, 1
	if state, err := svc.stateRepo.GetState(userID); err == nil {
		initialXP, initialLevel = state.XP, state.Level
	}

	result := &dto.EventResult{
		CompletedQuests:      []dto.QuestResponse{},
		UnlockedAchievements: []dto.AchievementResponse{},
	}

	// 1. Direct event XP
	if _, err := svc.ledgerSvc.AwardXP(userID, event.xp, event.reason, event.referenceID); err != nil {
		return nil, err
	}

	// 2. Streak touch
	if event.touchStreak {
		streak, err := svc.streakSvc.TouchActivity(userID)
		if err != nil {
			return nil, err
		}
		result.Streak = streak.Streak
		result.StreakIncreased = streak.Increased
	}

	// 3. Quest progress
	for _, metric := range event.questMetrics {
		completed, err := svc.questSvc.RecordProgress(userID, metric, 1)
		if err != nil {
			return nil, err
		}
		for i := range completed {
			result.CompletedQuests = append(result.CompletedQuests, questResponse(&completed[i].Quest))
		}
	}

	// 4. Achievement re-evaluation
	if event.evaluate {
		unlocked, err := svc.evaluateAchievements(userID)
		if err != nil {
			return nil, err
		}
		result.UnlockedAchievements = unlocked
	}

	if event.bumpBookGoals {
		if err := svc.goalSvc.IncrementBookGoals(userID); err != nil {
			return nil, err
		}
	}

	state, err := svc.stateRepo.GetState(userID)
	if err != nil {
		return nil, err
	}

	result.XPGained = state.XP - initialXP
	result.NewXP = state.XP
	result.NewLevel = state.Level
	result.LeveledUp = state.Level > initialLevel
	if !event.touchStreak {
		result.Streak = state.CurrentStreak
	}

	return result, nil
}

// evaluateAchievements re-checks every locked achievement's requirement
// against the user's current aggregate stats and records any that now hold.
// A malformed or unknown requirement disables that one achievement, never
// the whole evaluation.
func (svc *GamificationService) evaluateAchievements(userID string) ([]dto.AchievementResponse, error) {
	achievements, err := svc.achievementRepo.GetActiveAchievements()
	if err != nil {
		return nil, err
	}

	existing, err := svc.achievementRepo.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}
	unlockedIDs := make(map[string]bool, len(existing))
	for _, unlock := range existing {
		unlockedIDs[unlock.AchievementID] = true
	}

	stats, err := svc.collectStats(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var unlocked []dto.AchievementResponse
	for i := range achievements {
		achievement := &achievements[i]
		if unlockedIDs[achievement.ID] {
			continue
		}

		requirement, err := decodeRequirement(achievement.Requirement)
		if err != nil {
			log.WithError(err).WithField("achievement_id", achievement.ID).
				Warn("Malformed achievement requirement, treating as never satisfied")
			continue
		}

		value, known := stats.metricValue(requirement.Metric)
		if !known {
			log.WithFields(log.Fields{
				"achievement_id": achievement.ID,
				"metric":         requirement.Metric,
			}).Warn("Unknown achievement metric, treating as never satisfied")
			continue
		}

		if value < requirement.Count {
			continue
		}

		didUnlock, err := svc.achievementSvc.Unlock(userID, achievement.ID)
		if err != nil {
			return nil, err
		}
		if didUnlock {
			unlocked = append(unlocked, achievementResponse(achievement, &now))
		}
	}

	return unlocked, nil
}

// aggregateStats is the materialized view achievement conditions read from.
type aggregateStats struct {
	counts          map[string]int
	questsCompleted int
	state           *model.UserGameState
}

func (s *aggregateStats) metricValue(metric string) (int, bool) {
	switch metric {
	case shared.MetricBooksRead:
		return s.counts[shared.ReasonFinishedBook], true
	case shared.MetricBooksStarted:
		return s.counts[shared.ReasonStartedBook], true
	case shared.MetricReadingLogs:
		return s.counts[shared.ReasonLoggedReading], true
	case shared.MetricReviewsWritten:
		return s.counts[shared.ReasonWroteReview], true
	case shared.MetricBooksRated:
		return s.counts[shared.ReasonRatedBook], true
	case shared.MetricClubsJoined:
		return s.counts[shared.ReasonJoinedClub], true
	case shared.MetricClubsCreated:
		return s.counts[shared.ReasonCreatedClub], true
	case shared.MetricStreakDays:
		return s.state.CurrentStreak, true
	case shared.MetricLongestStreak:
		return s.state.LongestStreak, true
	case shared.MetricQuestsCompleted:
		return s.questsCompleted, true
	case shared.MetricTotalXP:
		return s.state.XP, true
	case shared.MetricLevel:
		return s.state.Level, true
	}
	return 0, false
}

func (svc *GamificationService) collectStats(userID string) (*aggregateStats, error) {
	state, err := svc.stateRepo.GetState(userID)
	if err != nil {
		return nil, err
	}

	counts, err := svc.stateRepo.CountEventsByReason(userID)
	if err != nil {
		return nil, err
	}

	questsCompleted, err := svc.questRepo.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	return &aggregateStats{
		counts:          counts,
		questsCompleted: questsCompleted,
		state:           state,
	}, nil
}

// ==================== QUERY SURFACE ====================

// GetUserStats is read-only; a user with no events yet gets zero-value stats
// rather than an error.
func (svc *GamificationService) GetUserStats(userID string) (*dto.UserStatsResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(errors.New("missing user id"), "Stats require a user")
	}

	response := &dto.UserStatsResponse{
		UserID:     userID,
		XP:         0,
		Level:      1,
		LevelName:  shared.GetLevelName(1),
		XPProgress: shared.GetXPProgress(0),
	}

	state, err := svc.stateRepo.GetState(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No state yet: first event will provision it
		return response, nil
	}
	if err != nil {
		return nil, err
	}

	response.XP = state.XP
	response.Level = state.Level
	response.LevelName = shared.GetLevelName(state.Level)
	response.XPProgress = shared.GetXPProgress(state.XP)
	response.CurrentStreak = state.CurrentStreak
	response.LongestStreak = state.LongestStreak
	response.StreakFreezes = state.StreakFreezes
	response.LastActiveDate = state.LastActiveDate

	return response, nil
}
