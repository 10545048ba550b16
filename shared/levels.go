package shared

import "fmt"

// Cumulative XP floors for levels 1-10. Index 0 is level 1's floor.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// Flat pace past level 10, so progression is unbounded.
const xpPerLevelAfter10 = 1000

var levelNames = map[int]string{
	1:  "Bookworm Egg",
	2:  "Page Turner",
	3:  "Chapter Chaser",
	4:  "Story Seeker",
	5:  "Novel Navigator",
	6:  "Tome Tracker",
	7:  "Library Legend",
	8:  "Bibliophile",
	9:  "Literary Sage",
	10: "Grand Reader",
}

// CalculateLevel maps a total XP amount to its level. Levels 1-10 follow the
// threshold table; beyond 4500 XP every 1000 XP is one more level.
func CalculateLevel(xp int) int {
	for i := len(levelThresholds) - 1; i >= 0; i-- {
		if xp >= levelThresholds[i] {
			if i == len(levelThresholds)-1 {
				return 10 + (xp-levelThresholds[i])/xpPerLevelAfter10
			}
			return i + 1
		}
	}
	return 1
}

// XPForLevel returns the total XP floor of a level, the inverse of CalculateLevel.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= 10 {
		return levelThresholds[level-1]
	}
	return levelThresholds[len(levelThresholds)-1] + (level-10)*xpPerLevelAfter10
}

// XPProgress describes how far into the current level a user is.
type XPProgress struct {
	Current    int `json:"current"`
	Required   int `json:"required"`
	Percentage int `json:"percentage"`
}

func GetXPProgress(xp int) XPProgress {
	level := CalculateLevel(xp)
	floor := XPForLevel(level)
	required := XPForLevel(level+1) - floor
	current := xp - floor

	percentage := int(float64(current)/float64(required)*100 + 0.5)
	if percentage > 100 {
		percentage = 100
	}

	return XPProgress{
		Current:    current,
		Required:   required,
		Percentage: percentage,
	}
}

// GetLevelName returns the display title for a level. Past level 10 names turn
// ordinal ("Grand Reader 2", "Grand Reader 3", ...) since levels are unbounded.
func GetLevelName(level int) string {
	if level <= 10 {
		if name, ok := levelNames[level]; ok {
			return name
		}
		return "Reader"
	}
	return fmt.Sprintf("Grand Reader %d", level-9)
}
