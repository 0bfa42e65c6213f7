package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PracticeQuestion is a multiple-choice question attached to a lesson.
// Options are positional: the index is the option's identity.
type PracticeQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Explanation        string   `json:"explanation"`
}

// Lesson is generated source material. Immutable after creation; regenerating
// a topic creates a new Lesson rather than mutating this one.
type Lesson struct {
	ID                uint                                  `json:"id" gorm:"primaryKey"`
	CreatedAt         time.Time                             `json:"created_at"`
	UpdatedAt         time.Time                             `json:"updated_at"`
	DeletedAt         gorm.DeletedAt                        `json:"deleted_at" gorm:"index"`
	UserID            uint                                  `json:"user_id" gorm:"index;not null"`
	Subject           string                                `json:"subject" gorm:"index;not null"`
	ClassLevel        string                                `json:"class_level"`
	Topic             string                                `json:"topic" gorm:"not null"`
	TopicTitle        string                                `json:"topic_title"`
	MainContent       string                                `json:"main_content"`
	SummaryPoints     datatypes.JSONSlice[string]           `json:"summary_points"`
	PracticeQuestions datatypes.JSONSlice[PracticeQuestion] `json:"practice_questions"`
	Completed         bool                                  `json:"completed" gorm:"default:false"`
}
