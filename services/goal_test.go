package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readquest-labs/readquest_api/dto"
	"github.com/readquest-labs/readquest_api/shared"
)

func TestSetGoalDefaultsWindows(t *testing.T) {
	db := newTestDB(t)
	svc := newTestGoalService(db)

	now := time.Now().UTC()

	yearly, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalYearlyBooks, Target: 24})
	require.NoError(t, err)
	assert.Equal(t, now.Year(), yearly.Year)
	assert.Equal(t, 0, yearly.Month)
	assert.Equal(t, 24, yearly.Target)

	monthly, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalMonthlyBooks, Target: 2})
	require.NoError(t, err)
	assert.Equal(t, now.Year(), monthly.Year)
	assert.Equal(t, int(now.Month()), monthly.Month)

	daily, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalDailyPages, Target: 30, Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, daily.Year)
	assert.Equal(t, 0, daily.Month)
}

func TestSetGoalUpsertResetsProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newTestGoalService(db)

	first, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalYearlyBooks, Target: 12})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementBookGoals("user-1"))

	goals, err := svc.GetGoals("user-1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 1, goals[0].Progress)

	second, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalYearlyBooks, Target: 24})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 24, second.Target)
	assert.Equal(t, 0, second.Progress)
}

func TestIncrementBookGoalsTouchesYearlyAndMonthly(t *testing.T) {
	db := newTestDB(t)
	svc := newTestGoalService(db)

	_, err := svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalYearlyBooks, Target: 12})
	require.NoError(t, err)
	_, err = svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalMonthlyBooks, Target: 2})
	require.NoError(t, err)
	_, err = svc.SetGoal("user-1", dto.SetGoalRequest{Type: shared.GoalDailyPages, Target: 30})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementBookGoals("user-1"))
	require.NoError(t, svc.IncrementBookGoals("user-1"))

	goals, err := svc.GetGoals("user-1")
	require.NoError(t, err)

	byType := make(map[string]dto.ReadingGoalResponse)
	for _, goal := range goals {
		byType[goal.Type] = goal
	}

	assert.Equal(t, 2, byType[shared.GoalYearlyBooks].Progress)
	assert.Equal(t, 2, byType[shared.GoalMonthlyBooks].Progress)
	assert.Equal(t, 0, byType[shared.GoalDailyPages].Progress)
}

func TestSetGoalRequiresUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestGoalService(db)

	_, err := svc.SetGoal("", dto.SetGoalRequest{Type: shared.GoalYearlyBooks, Target: 12})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}
