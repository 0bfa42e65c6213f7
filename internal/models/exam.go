package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question difficulty values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionsPerQuestion is the expected option count for every generated
// question. Violations are logged, not rejected.
const OptionsPerQuestion = 4

// ExamPrep is a generated, versioned question set built from a user's lesson
// history. At most one prep per user is active at a time.
type ExamPrep struct {
	ID              uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	DeletedAt       gorm.DeletedAt              `json:"deleted_at" gorm:"index"`
	UserID          uint                        `json:"user_id" gorm:"index;not null"`
	Subject         string                      `json:"subject" gorm:"not null"`
	ClassLevel      string                      `json:"class_level"`
	Title           string                      `json:"title"`
	Questions       []ExamQuestion              `json:"questions,omitempty" gorm:"foreignKey:ExamPrepID"`
	TotalQuestions  int                         `json:"total_questions"`
	TopicsCovered   datatypes.JSONSlice[string] `json:"topics_covered"`
	SourceLessonIDs datatypes.JSONSlice[uint]   `json:"source_lesson_ids"`
	IsActive        bool                        `json:"is_active" gorm:"default:false"`
}

// ExamQuestion is immutable once generated. Position preserves generation
// order; option identity is the positional index.
type ExamQuestion struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time                   `json:"created_at"`
	ExamPrepID         uint                        `json:"exam_prep_id" gorm:"index;not null"`
	Position           int                         `json:"position" gorm:"not null"`
	Question           string                      `json:"question" gorm:"not null"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correct_option_index"`
	Explanation        string                      `json:"explanation"`
	TopicCovered       string                      `json:"topic_covered"`
	Difficulty         string                      `json:"difficulty"`
}

// QuizAttempt is an immutable record of one practice-quiz submission.
type QuizAttempt struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"created_at"`
	Reference      string         `json:"reference" gorm:"uniqueIndex"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	LessonID       uint           `json:"lesson_id" gorm:"index"`
	Subject        string         `json:"subject"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Score          float64        `json:"score"`
	TimeSpent      *int           `json:"time_spent,omitempty"`
	Answers        datatypes.JSON `json:"answers"`
}

// ExamPrepAttempt is an immutable record of one exam submission.
type ExamPrepAttempt struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"created_at"`
	Reference      string         `json:"reference" gorm:"uniqueIndex"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	ExamPrepID     uint           `json:"exam_prep_id" gorm:"index;not null"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Score          float64        `json:"score"`
	TimeSpent      *int           `json:"time_spent,omitempty"`
	Answers        datatypes.JSON `json:"answers"`
}
