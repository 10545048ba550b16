package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
		{1500, 6},
		{2100, 7},
		{2800, 8},
		{3600, 9},
		{4499, 9},
		{4500, 10},
		{5499, 10},
		{5500, 11},
		{6499, 11},
		{6500, 12},
		{14500, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("xp_%d", tt.xp), func(t *testing.T) {
			assert.Equal(t, tt.level, CalculateLevel(tt.xp))
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for xp := 1; xp <= 20000; xp += 7 {
		level := CalculateLevel(xp)
		assert.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= 30; level++ {
		floor := XPForLevel(level)

		assert.Equal(t, level, CalculateLevel(floor), "floor of level %d", level)
		if floor > 0 {
			assert.Equal(t, level-1, CalculateLevel(floor-1), "one below floor of level %d", level)
		}
	}
}

func TestXPForLevelClampsBelowOne(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(0))
	assert.Equal(t, 0, XPForLevel(-3))
	assert.Equal(t, 0, XPForLevel(1))
}

func TestGetXPProgress(t *testing.T) {
	progress := GetXPProgress(150)
	assert.Equal(t, 50, progress.Current)
	assert.Equal(t, 200, progress.Required)
	assert.Equal(t, 25, progress.Percentage)

	progress = GetXPProgress(0)
	assert.Equal(t, 0, progress.Current)
	assert.Equal(t, 100, progress.Required)
	assert.Equal(t, 0, progress.Percentage)

	// Exactly on a threshold starts the next level at 0%
	progress = GetXPProgress(100)
	assert.Equal(t, 0, progress.Current)
	assert.Equal(t, 200, progress.Required)
	assert.Equal(t, 0, progress.Percentage)

	// Past level 10 every level spans 1000 XP
	progress = GetXPProgress(5000)
	assert.Equal(t, 500, progress.Current)
	assert.Equal(t, 1000, progress.Required)
	assert.Equal(t, 50, progress.Percentage)
}

func TestGetLevelName(t *testing.T) {
	assert.Equal(t, "Bookworm Egg", GetLevelName(1))
	assert.Equal(t, "Novel Navigator", GetLevelName(5))
	assert.Equal(t, "Grand Reader", GetLevelName(10))
	assert.Equal(t, "Grand Reader 2", GetLevelName(11))
	assert.Equal(t, "Grand Reader 5", GetLevelName(14))
}
