package lesson

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"studysphere/internal/ai"
	"studysphere/internal/apperr"
	"studysphere/internal/exam"
	"studysphere/internal/models"
)

// Store is the persistence surface for lessons and quiz attempts.
type Store interface {
	CreateLesson(lesson *models.Lesson) error
	GetLesson(id uint) (*models.Lesson, error)
	ListLessons(userID uint, subject string) ([]models.Lesson, error)
	MarkCompleted(id uint) error
	CreateQuizAttempt(attempt *models.QuizAttempt) error
}

// Gamifier is the best-effort progress hook. Errors from it never fail the
// lesson or quiz action that triggered it.
type Gamifier interface {
	ApplyLessonCompletion(userID uint, subject string) error
	ApplyQuizResult(userID uint, subject string, score float64) error
}

type Service struct {
	store     Store
	generator ai.Generator
	gamifier  Gamifier
	log       *zap.SugaredLogger
}

func NewService(store Store, generator ai.Generator, gamifier Gamifier, log *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		generator: generator,
		gamifier:  gamifier,
		log:       log,
	}
}

// GenerateLesson asks the generator for lesson content and persists it. Each
// generation creates a new Lesson; existing lessons are never regenerated in
// place.
func (s *Service) GenerateLesson(ctx context.Context, userID uint, subject, classLevel, topic string) (*models.Lesson, error) {
	if subject == "" || topic == "" {
		return nil, fmt.Errorf("subject and topic are required: %w", apperr.ErrValidation)
	}

	generated, err := s.generator.GenerateLessonContent(ctx, ai.LessonRequest{
		Subject:    subject,
		ClassLevel: classLevel,
		Topic:      topic,
	})
	if err != nil {
		return nil, err
	}

	practice := make([]models.PracticeQuestion, len(generated.PracticeQuestions))
	for i, q := range generated.PracticeQuestions {
		if len(q.Options) != models.OptionsPerQuestion {
			s.log.Warnw("generated practice question has wrong option count",
				"position", i, "options", len(q.Options))
		}
		practice[i] = models.PracticeQuestion{
			Question:           q.Question,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Explanation:        q.Explanation,
		}
	}

	lessonTopic := generated.Topic
	if lessonTopic == "" {
		lessonTopic = topic
	}

	lesson := &models.Lesson{
		UserID:            userID,
		Subject:           subject,
		ClassLevel:        classLevel,
		Topic:             lessonTopic,
		TopicTitle:        generated.TopicTitle,
		MainContent:       generated.MainContent,
		SummaryPoints:     datatypes.NewJSONSlice(generated.SummaryPoints),
		PracticeQuestions: datatypes.NewJSONSlice(practice),
	}
	if err := s.store.CreateLesson(lesson); err != nil {
		return nil, err
	}

	s.log.Infow("lesson generated", "user_id", userID, "lesson_id", lesson.ID,
		"subject", subject, "topic", lessonTopic)
	return lesson, nil
}

// GetLesson returns a lesson the user owns.
func (s *Service) GetLesson(userID, lessonID uint) (*models.Lesson, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.UserID != userID {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, apperr.ErrOwnership)
	}
	return lesson, nil
}

// ListLessons returns the user's lessons, optionally filtered by subject.
func (s *Service) ListLessons(userID uint, subject string) ([]models.Lesson, error) {
	return s.store.ListLessons(userID, subject)
}

// CompleteLesson marks a lesson finished and runs the gamification side
// effects best-effort. Completing an already-completed lesson is a no-op so
// a flaky client cannot double-award XP through this path.
func (s *Service) CompleteLesson(userID, lessonID uint) error {
	lesson, err := s.GetLesson(userID, lessonID)
	if err != nil {
		return err
	}
	if lesson.Completed {
		return nil
	}

	if err := s.store.MarkCompleted(lessonID); err != nil {
		return err
	}

	if s.gamifier != nil {
		if err := s.gamifier.ApplyLessonCompletion(userID, lesson.Subject); err != nil {
			s.log.Warnw("gamification side effect failed after lesson completion",
				"user_id", userID, "lesson_id", lessonID, "error", err)
		}
	}
	return nil
}

// QuizOutcome pairs the scored report with the stored attempt reference.
type QuizOutcome struct {
	Reference string      `json:"reference"`
	Result    exam.Result `json:"result"`
}

// SubmitQuiz scores a practice-quiz submission against the lesson's
// questions, persists the attempt, then runs gamification best-effort.
func (s *Service) SubmitQuiz(userID, lessonID uint, answers []exam.SubmittedAnswer, timeSpent *int) (*QuizOutcome, error) {
	if answers == nil {
		return nil, fmt.Errorf("answers are required: %w", apperr.ErrValidation)
	}

	lesson, err := s.GetLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	questions := make([]models.ExamQuestion, len(lesson.PracticeQuestions))
	for i, q := range lesson.PracticeQuestions {
		questions[i] = models.ExamQuestion{
			Position:           i,
			Question:           q.Question,
			Options:            datatypes.NewJSONSlice(q.Options),
			CorrectOptionIndex: q.CorrectOptionIndex,
			Explanation:        q.Explanation,
		}
	}

	result := exam.CalculateExamResults(questions, answers)

	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAttempt{
		Reference:      uuid.NewString(),
		UserID:         userID,
		LessonID:       lessonID,
		Subject:        lesson.Subject,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Score:          result.Score,
		TimeSpent:      timeSpent,
		Answers:        rawAnswers,
	}
	if err := s.store.CreateQuizAttempt(attempt); err != nil {
		return nil, err
	}

	if s.gamifier != nil {
		if err := s.gamifier.ApplyQuizResult(userID, lesson.Subject, result.Score); err != nil {
			s.log.Warnw("gamification side effect failed after quiz",
				"user_id", userID, "lesson_id", lessonID, "error", err)
		}
	}

	return &QuizOutcome{Reference: attempt.Reference, Result: result}, nil
}
