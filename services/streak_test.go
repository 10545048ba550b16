package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readquest-labs/readquest_api/shared"
)

// fakeClock lets a test walk one day at a time in UTC.
type fakeClock struct {
	current time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{current: t}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestTouchActivityStartsStreak(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	result, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Streak)
	assert.True(t, result.Increased)

	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1, state.LongestStreak)
	assert.Equal(t, 5, state.XP) // day-1 bonus
}

func TestTouchActivitySameDayIsNoOp(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	_, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	clock.Advance(6 * time.Hour)
	result, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Streak)
	assert.False(t, result.Increased)

	// No second bonus paid
	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, state.XP)
}

func TestTouchActivityConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	_, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	// 23:30 to 00:30 next day is still a consecutive calendar day
	clock.Advance(1 * time.Hour)
	result, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Streak)
	assert.True(t, result.Increased)
}

func TestTouchActivityBonusCapsAtFifty(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	expectedXP := 0
	for day := 1; day <= 12; day++ {
		result, err := svc.TouchActivity("user-1")
		require.NoError(t, err)
		assert.Equal(t, day, result.Streak)

		bonus := day * shared.XPStreakBonusPerDay
		if bonus > shared.XPStreakBonusCap {
			bonus = shared.XPStreakBonusCap
		}
		expectedXP += bonus

		clock.Advance(24 * time.Hour)
	}

	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, expectedXP, state.XP)

	// Day 7 pays 35, day 10 onward pays the 50 cap
	history, err := svc.stateRepo.GetXPHistory("user-1", 12)
	require.NoError(t, err)
	require.Len(t, history, 12)
	assert.Equal(t, 50, history[0].Amount)
	assert.Equal(t, 50, history[1].Amount)
	assert.Equal(t, 50, history[2].Amount)
}

func TestTouchActivityGapResetsStreak(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	for day := 0; day < 5; day++ {
		_, err := svc.TouchActivity("user-1")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	// Skip two full days
	clock.Advance(48 * time.Hour)
	result, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Streak)
	assert.True(t, result.Increased)

	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 5, state.LongestStreak)
}

func TestTouchActivityLongestStreakNeverDecreases(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	for day := 0; day < 3; day++ {
		_, err := svc.TouchActivity("user-1")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	clock.Advance(72 * time.Hour)
	for day := 0; day < 2; day++ {
		_, err := svc.TouchActivity("user-1")
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 3, state.LongestStreak)
}

func TestTouchActivityDoesNotConsumeStreakFreezes(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestStreakService(db, clock.Now)

	_, err := svc.TouchActivity("user-1")
	require.NoError(t, err)

	// Grant some freezes out of band
	state, err := svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	state.StreakFreezes = 3
	require.NoError(t, db.Save(state).Error)

	// A broken streak still resets; the freeze balance is untouched
	clock.Advance(72 * time.Hour)
	result, err := svc.TouchActivity("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)

	state, err = svc.stateRepo.GetState("user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, state.StreakFreezes)
}

func TestTouchActivityRequiresUser(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(time.Now())
	svc := newTestStreakService(db, clock.Now)

	_, err := svc.TouchActivity("")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}
