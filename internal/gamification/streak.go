package gamification

import "time"

// DailyStreakBonus is the per-day multiplier for the streak XP bonus. When a
// streak event fires with a resulting streak above 1, the orchestrator awards
// (newStreak-1) * DailyStreakBonus XP before persisting the new streak.
const DailyStreakBonus = 10

// StreakUpdate is the outcome of one streak evaluation.
type StreakUpdate struct {
	NewStreak        int
	IsNewStreakEvent bool
}

// UpdateStreak decides how a consecutive-day streak moves given the last
// recorded activity. Dates compare at calendar-day granularity; time of day
// is ignored. Rules, in order:
//
//   - no prior activity: streak becomes 1, event fires
//   - same calendar day: unchanged, no event
//   - exactly one day later: streak + 1, event fires
//   - any larger gap: reset to 1, event fires
func UpdateStreak(previousStreak int, lastActivity *time.Time, today time.Time) StreakUpdate {
	if lastActivity == nil {
		return StreakUpdate{NewStreak: 1, IsNewStreakEvent: true}
	}

	days := daysBetween(*lastActivity, today)
	switch {
	case days == 0:
		return StreakUpdate{NewStreak: previousStreak, IsNewStreakEvent: false}
	case days == 1:
		return StreakUpdate{NewStreak: previousStreak + 1, IsNewStreakEvent: true}
	default:
		return StreakUpdate{NewStreak: 1, IsNewStreakEvent: true}
	}
}

// daysBetween counts calendar-day boundaries crossed from a to b.
func daysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
