package gamification

import (
	"testing"
	"time"
)

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

func TestUpdateStreak(t *testing.T) {
	today := day(2026, time.March, 10, 14)

	tests := []struct {
		name         string
		previous     int
		lastActivity *time.Time
		wantStreak   int
		wantEvent    bool
	}{
		{
			name:         "no prior activity starts at one",
			previous:     0,
			lastActivity: nil,
			wantStreak:   1,
			wantEvent:    true,
		},
		{
			name:         "same day keeps streak without event",
			previous:     4,
			lastActivity: timePtr(day(2026, time.March, 10, 8)),
			wantStreak:   4,
			wantEvent:    false,
		},
		{
			name:         "consecutive day increments",
			previous:     4,
			lastActivity: timePtr(day(2026, time.March, 9, 23)),
			wantStreak:   5,
			wantEvent:    true,
		},
		{
			name:         "two day gap resets",
			previous:     12,
			lastActivity: timePtr(day(2026, time.March, 8, 9)),
			wantStreak:   1,
			wantEvent:    true,
		},
		{
			name:         "long gap resets",
			previous:     30,
			lastActivity: timePtr(day(2026, time.January, 1, 9)),
			wantStreak:   1,
			wantEvent:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateStreak(tt.previous, tt.lastActivity, today)
			if got.NewStreak != tt.wantStreak {
				t.Errorf("NewStreak = %d, want %d", got.NewStreak, tt.wantStreak)
			}
			if got.IsNewStreakEvent != tt.wantEvent {
				t.Errorf("IsNewStreakEvent = %v, want %v", got.IsNewStreakEvent, tt.wantEvent)
			}
		})
	}
}

func TestUpdateStreak_TimeOfDayIgnored(t *testing.T) {
	// Yesterday 23:59 to today 00:01 is under three hours apart but still
	// counts as consecutive calendar days.
	last := day(2026, time.March, 9, 23).Add(59 * time.Minute)
	today := day(2026, time.March, 10, 0).Add(time.Minute)

	got := UpdateStreak(2, &last, today)
	if got.NewStreak != 3 || !got.IsNewStreakEvent {
		t.Errorf("got streak %d event %v, want 3 true", got.NewStreak, got.IsNewStreakEvent)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
