package exam

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"studysphere/internal/ai"
	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 50
)

// classLevels is the accepted class-level enum.
var classLevels = map[string]bool{
	"6": true, "7": true, "8": true, "9": true,
	"10": true, "11": true, "12": true,
}

// Store is the persistence surface for exam preps and attempts.
type Store interface {
	ListLessonsBySubject(userID uint, subject string) ([]models.Lesson, error)
	CreateExamPrep(prep *models.ExamPrep) error
	GetExamPrep(id uint) (*models.ExamPrep, error)
	ListExamPreps(userID uint) ([]models.ExamPrep, error)
	DeleteExamPrep(id uint) error
	DeactivateSiblings(userID, exceptID uint) error
	SetActive(id uint, active bool) error
	CreateAttempt(attempt *models.ExamPrepAttempt) error
	ListAttempts(userID uint) ([]models.ExamPrepAttempt, error)
}

// Gamifier is the best-effort progress hook invoked after an attempt is
// saved. Errors from it never fail the attempt.
type Gamifier interface {
	ApplyExamResult(userID uint, score float64) error
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

// CreateExamPrep aggregates the user's lessons for a subject, asks the
// generator for a question set and persists it as the user's new active
// prep. Generation failures propagate untouched; a question with an option
// count other than four is logged and stored as returned.
func (s *Service) CreateExamPrep(ctx context.Context, userID uint, subject, classLevel string, questionCount int) (*models.ExamPrep, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required: %w", apperr.ErrValidation)
	}
	if !classLevels[classLevel] {
		return nil, fmt.Errorf("invalid class level %q: %w", classLevel, apperr.ErrValidation)
	}
	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}
	if questionCount > maxQuestionCount {
		return nil, fmt.Errorf("question count %d exceeds limit: %w", questionCount, apperr.ErrValidation)
	}

	lessons, err := s.store.ListLessonsBySubject(userID, subject)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, fmt.Errorf("no %s lessons to build an exam from: %w", subject, apperr.ErrValidation)
	}

	aggregated := AggregateLessonContent(lessons)

	generated, err := s.generator.GenerateExamQuestions(ctx, ai.ExamRequest{
		Subject:       subject,
		ClassLevel:    classLevel,
		Topics:        aggregated.Topics,
		Content:       aggregated.FullContent,
		SummaryPoints: aggregated.SummaryPoints,
		QuestionCount: questionCount,
	})
	if err != nil {
		return nil, err
	}

	questions := make([]models.ExamQuestion, len(generated))
	for i, q := range generated {
		if len(q.Options) != models.OptionsPerQuestion {
			// Stored as returned; downstream consumers tolerate this today.
			s.log.Warnw("generated question has wrong option count",
				"position", i, "options", len(q.Options), "question", truncate(q.Question, 80))
		}
		questions[i] = models.ExamQuestion{
			Position:           i,
			Question:           q.Question,
			Options:            datatypes.NewJSONSlice(q.Options),
			CorrectOptionIndex: q.CorrectOptionIndex,
			Explanation:        q.Explanation,
			TopicCovered:       q.TopicCovered,
			Difficulty:         q.Difficulty,
		}
	}

	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}

	prep := &models.ExamPrep{
		UserID:          userID,
		Subject:         subject,
		ClassLevel:      classLevel,
		Title:           fmt.Sprintf("%s Exam Prep", subject),
		Questions:       questions,
		TotalQuestions:  len(questions),
		TopicsCovered:   datatypes.NewJSONSlice(aggregated.Topics),
		SourceLessonIDs: datatypes.NewJSONSlice(lessonIDs),
	}
	if err := s.store.CreateExamPrep(prep); err != nil {
		return nil, err
	}

	// Only one active prep per user: siblings go inactive first.
	if err := s.store.DeactivateSiblings(userID, prep.ID); err != nil {
		return nil, err
	}
	if err := s.store.SetActive(prep.ID, true); err != nil {
		return nil, err
	}
	prep.IsActive = true

	s.log.Infow("exam prep created", "user_id", userID, "prep_id", prep.ID,
		"subject", subject, "questions", len(questions), "source_lessons", len(lessons))
	return prep, nil
}

// GetExamPrep returns a prep the user owns.
func (s *Service) GetExamPrep(userID, prepID uint) (*models.ExamPrep, error) {
	prep, err := s.store.GetExamPrep(prepID)
	if err != nil {
		return nil, err
	}
	if prep.UserID != userID {
		return nil, fmt.Errorf("exam prep %d: %w", prepID, apperr.ErrOwnership)
	}
	return prep, nil
}

// ListExamPreps returns the user's preps, newest first, without questions.
func (s *Service) ListExamPreps(userID uint) ([]models.ExamPrep, error) {
	return s.store.ListExamPreps(userID)
}

// Activate makes one prep the user's active prep, deactivating the rest
// first.
func (s *Service) Activate(userID, prepID uint) error {
	if _, err := s.GetExamPrep(userID, prepID); err != nil {
		return err
	}
	if err := s.store.DeactivateSiblings(userID, prepID); err != nil {
		return err
	}
	return s.store.SetActive(prepID, true)
}

// Delete removes a prep after an ownership check.
func (s *Service) Delete(userID, prepID uint) error {
	if _, err := s.GetExamPrep(userID, prepID); err != nil {
		return err
	}
	return s.store.DeleteExamPrep(prepID)
}

// AttemptOutcome pairs the scored report with the stored attempt reference.
type AttemptOutcome struct {
	Reference string `json:"reference"`
	Result    Result `json:"result"`
}

// SubmitAttempt scores a submission against the prep's questions, persists
// the attempt, then runs gamification best-effort: a gamification failure is
// logged and swallowed, never failing the saved attempt.
func (s *Service) SubmitAttempt(userID, prepID uint, answers []SubmittedAnswer, timeSpent *int) (*AttemptOutcome, error) {
	if answers == nil {
		return nil, fmt.Errorf("answers are required: %w", apperr.ErrValidation)
	}

	prep, err := s.GetExamPrep(userID, prepID)
	if err != nil {
		return nil, err
	}

	result := CalculateExamResults(prep.Questions, answers)

	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	attempt := &models.ExamPrepAttempt{
		Reference:      uuid.NewString(),
		UserID:         userID,
		ExamPrepID:     prepID,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Score:          result.Score,
		TimeSpent:      timeSpent,
		Answers:        rawAnswers,
	}
	if err := s.store.CreateAttempt(attempt); err != nil {
		return nil, err
	}

	if s.gamifier != nil {
		if err := s.gamifier.ApplyExamResult(userID, result.Score); err != nil {
			s.log.Warnw("gamification side effect failed after exam attempt",
				"user_id", userID, "prep_id", prepID, "error", err)
		}
	}

	return &AttemptOutcome{Reference: attempt.Reference, Result: result}, nil
}

// ListAttempts returns the user's attempt history, newest first.
func (s *Service) ListAttempts(userID uint) ([]models.ExamPrepAttempt, error) {
	return s.store.ListAttempts(userID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
