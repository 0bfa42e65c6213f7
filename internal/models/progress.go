package models

import (
	"time"
)

// UserProgress holds all gamification state for one user. One row per user,
// created at registration with everything zeroed. XPPoints and Level move
// together through the XP award path; DailyStreak and LastActivityDate move
// through the streak path.
type UserProgress struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	UserID           uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	XPPoints         int        `json:"xp_points" gorm:"default:0"`
	Level            int        `json:"level" gorm:"default:1"`
	DailyStreak      int        `json:"daily_streak" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

// UserBadge records one earned badge. The (user_id, badge_id) pair is unique;
// rows are only ever inserted, never updated or deleted.
type UserBadge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   string    `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
}

// SubjectProgress tracks per-subject counters for one user.
type SubjectProgress struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserID           uint      `json:"user_id" gorm:"uniqueIndex:idx_user_subject;not null"`
	Subject          string    `json:"subject" gorm:"uniqueIndex:idx_user_subject;not null"`
	LessonsCompleted int       `json:"lessons_completed" gorm:"default:0"`
	QuizzesPassed    int       `json:"quizzes_passed" gorm:"default:0"`
	XPEarned         int       `json:"xp_earned" gorm:"default:0"`
}
