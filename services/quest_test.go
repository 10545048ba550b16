package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/readquest-labs/readquest_api/model"
	"github.com/readquest-labs/readquest_api/shared"
)

func seedQuest(t *testing.T, db *gorm.DB, id string, questType string, xpReward, count int, metric string) *model.Quest {
	t.Helper()

	raw, err := json.Marshal(model.Requirement{Count: count, Metric: metric})
	require.NoError(t, err)

	quest := &model.Quest{
		ID:          id,
		Name:        id,
		Type:        questType,
		XPReward:    xpReward,
		Requirement: raw,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(quest).Error)
	return quest
}

func TestRecordProgressAdvancesMatchingQuests(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-read-3", shared.QuestTypeWeekly, 75, 3, shared.MetricBooksRead)
	_, err := svc.AssignQuest("user-1", "q-read-3")
	require.NoError(t, err)

	completed, err := svc.RecordProgress("user-1", shared.MetricBooksRead, 1)
	require.NoError(t, err)
	assert.Empty(t, completed)

	quests, err := svc.GetUserQuests("user-1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, 1, quests[0].Progress)
	assert.False(t, quests[0].Completed)
}

func TestRecordProgressIgnoresOtherMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-read-3", shared.QuestTypeWeekly, 75, 3, shared.MetricBooksRead)
	_, err := svc.AssignQuest("user-1", "q-read-3")
	require.NoError(t, err)

	_, err = svc.RecordProgress("user-1", shared.MetricReviewsWritten, 1)
	require.NoError(t, err)

	quests, err := svc.GetUserQuests("user-1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, 0, quests[0].Progress)
}

func TestRecordProgressClampsAtRequirementCount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-log-2", shared.QuestTypeDaily, 15, 2, shared.MetricReadingLogs)
	_, err := svc.AssignQuest("user-1", "q-log-2")
	require.NoError(t, err)

	completed, err := svc.RecordProgress("user-1", shared.MetricReadingLogs, 10)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, 2, completed[0].Progress)
}

func TestRecordProgressCompletionPaysExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)
	ledger := newTestLedgerService(db)

	seedQuest(t, db, "q-read-1", shared.QuestTypeWeekly, 75, 1, shared.MetricBooksRead)
	_, err := svc.AssignQuest("user-1", "q-read-1")
	require.NoError(t, err)

	completed, err := svc.RecordProgress("user-1", shared.MetricBooksRead, 1)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].Completed)

	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 75, state.XP)

	// A later matching event must not touch the completed instance
	completed, err = svc.RecordProgress("user-1", shared.MetricBooksRead, 1)
	require.NoError(t, err)
	assert.Empty(t, completed)

	state, err = svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 75, state.XP)

	history, err := ledger.GetXPHistory("user-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, shared.ReasonQuestCompleted, history[0].Reason)
}

func TestRecordProgressConcurrentIncrementsLoseNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-log-1000", shared.QuestTypeWeekly, 75, 1000, shared.MetricReadingLogs)
	_, err := svc.AssignQuest("user-1", "q-log-1000")
	require.NoError(t, err)

	const (
		workers    = 4
		increments = 25
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				_, err := svc.RecordProgress("user-1", shared.MetricReadingLogs, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	quests, err := svc.GetUserQuests("user-1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, workers*increments, quests[0].Progress)
	assert.False(t, quests[0].Completed)
}

func TestRecordProgressSkipsMalformedRequirement(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	quest := &model.Quest{
		ID:          "q-broken",
		Name:        "q-broken",
		Type:        shared.QuestTypeDaily,
		XPReward:    10,
		Requirement: json.RawMessage(`{"count": "three"}`),
		IsActive:    true,
	}
	require.NoError(t, db.Create(quest).Error)
	seedQuest(t, db, "q-ok", shared.QuestTypeDaily, 10, 1, shared.MetricReadingLogs)

	_, err := svc.AssignQuest("user-1", "q-broken")
	require.NoError(t, err)
	_, err = svc.AssignQuest("user-1", "q-ok")
	require.NoError(t, err)

	// The broken row is skipped, the healthy one still completes
	completed, err := svc.RecordProgress("user-1", shared.MetricReadingLogs, 1)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "q-ok", completed[0].QuestID)
}

func TestRecordProgressIgnoresExpiredInstances(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-read-1", shared.QuestTypeDaily, 15, 1, shared.MetricBooksRead)
	userQuest, err := svc.AssignQuest("user-1", "q-read-1")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.UserQuest{}).
		Where("id = ?", userQuest.ID).
		Update("expires_at", expired).Error)

	completed, err := svc.RecordProgress("user-1", shared.MetricBooksRead, 1)
	require.NoError(t, err)
	assert.Empty(t, completed)

	quests, err := svc.GetUserQuests("user-1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, 0, quests[0].Progress)
}

func TestAssignQuestRejectsInactive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	quest := seedQuest(t, db, "q-retired", shared.QuestTypeDaily, 15, 1, shared.MetricBooksRead)
	require.NoError(t, db.Model(quest).Update("is_active", false).Error)

	_, err := svc.AssignQuest("user-1", "q-retired")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestQuestExpiryWindows(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	daily := questExpiry(shared.QuestTypeDaily, now)
	require.NotNil(t, daily)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), *daily)

	weekly := questExpiry(shared.QuestTypeWeekly, now)
	require.NotNil(t, weekly)
	assert.Equal(t, time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), *weekly)

	monthly := questExpiry(shared.QuestTypeMonthly, now)
	require.NotNil(t, monthly)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *monthly)

	assert.Nil(t, questExpiry(shared.QuestTypeEvent, now))
}

func TestSweepExpiredRemovesOnlyExpiredIncomplete(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)

	seedQuest(t, db, "q-a", shared.QuestTypeDaily, 15, 1, shared.MetricBooksRead)
	seedQuest(t, db, "q-b", shared.QuestTypeDaily, 15, 1, shared.MetricReadingLogs)

	stale, err := svc.AssignQuest("user-1", "q-a")
	require.NoError(t, err)
	_, err = svc.AssignQuest("user-1", "q-b")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.UserQuest{}).
		Where("id = ?", stale.ID).
		Update("expires_at", expired).Error)

	removed, err := svc.questRepo.DeleteExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	quests, err := svc.GetUserQuests("user-1")
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "q-b", quests[0].Quest.ID)
}

func TestExpirySweeperStopsOnShutdown(t *testing.T) {
	db := newTestDB(t)
	svc := newTestQuestService(db)
	svc.stopSweeper = make(chan struct{})

	done := make(chan struct{})
	go func() {
		svc.startExpirySweeper()
		close(done)
	}()

	svc.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper kept running after shutdown")
	}
}

func TestDecodeRequirement(t *testing.T) {
	requirement, err := decodeRequirement([]byte(`{"count": 3, "metric": "books_read"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, requirement.Count)
	assert.Equal(t, shared.MetricBooksRead, requirement.Metric)

	_, err = decodeRequirement(nil)
	assert.Error(t, err)

	_, err = decodeRequirement([]byte(`{"count": 0, "metric": "books_read"}`))
	assert.Error(t, err)

	_, err = decodeRequirement([]byte(`{"count": 3}`))
	assert.Error(t, err)

	_, err = decodeRequirement([]byte(`not json`))
	assert.Error(t, err)
}
