package gamification

// levelThresholds maps level-1 to the minimum cumulative XP for that level.
// Level 1 starts at 0 XP; the table caps progression at its length.
var levelThresholds = []int{
	0,     // level 1
	100,   // level 2
	250,   // level 3
	450,   // level 4
	700,   // level 5
	1000,  // level 6
	1400,  // level 7
	1900,  // level 8
	2500,  // level 9
	3200,  // level 10
	4000,  // level 11
	5000,  // level 12
	6200,  // level 13
	7600,  // level 14
	9200,  // level 15
	11000, // level 16
	13000, // level 17
	15500, // level 18
	18500, // level 19
	22000, // level 20
}

// MaxLevel is the highest reachable level.
func MaxLevel() int {
	return len(levelThresholds)
}

// CalculateLevel maps cumulative XP to a level. It scans the threshold table
// from the top and returns the largest level whose threshold is at or below
// xp. Total over all non-negative inputs; never returns less than 1.
func CalculateLevel(xp int) int {
	for i := len(levelThresholds) - 1; i >= 0; i-- {
		if xp >= levelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// XPForNextLevel returns how much XP is missing until the next level, or 0
// once the final threshold is reached.
func XPForNextLevel(xp int) int {
	level := CalculateLevel(xp)
	if level >= len(levelThresholds) {
		return 0
	}
	return levelThresholds[level] - xp
}
