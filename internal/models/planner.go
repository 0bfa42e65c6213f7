package models

import (
	"time"

	"gorm.io/gorm"
)

// StudyPlan is a user-owned study timetable. Like ExamPrep, at most one plan
// per user is active at a time.
type StudyPlan struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Subject   string         `json:"subject"`
	ExamDate  *time.Time     `json:"exam_date,omitempty"`
	IsActive  bool           `json:"is_active" gorm:"default:false"`
	Tasks     []StudyTask    `json:"tasks,omitempty" gorm:"foreignKey:StudyPlanID"`
}

// StudyTask is one scheduled unit of work inside a plan.
type StudyTask struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StudyPlanID     uint       `json:"study_plan_id" gorm:"index;not null"`
	DueDate         time.Time  `json:"due_date" gorm:"index"`
	Topic           string     `json:"topic" gorm:"not null"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	Completed       bool       `json:"completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
