package exam

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"studysphere/internal/ai"
	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

type fakeExamStore struct {
	lessons     []models.Lesson
	preps       map[uint]*models.ExamPrep
	attempts    []models.ExamPrepAttempt
	nextID      uint
	deactivated []uint
	activated   []uint
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{preps: make(map[uint]*models.ExamPrep)}
}

func (f *fakeExamStore) ListLessonsBySubject(userID uint, subject string) ([]models.Lesson, error) {
	return f.lessons, nil
}

func (f *fakeExamStore) CreateExamPrep(prep *models.ExamPrep) error {
	f.nextID++
	prep.ID = f.nextID
	f.preps[prep.ID] = prep
	return nil
}

func (f *fakeExamStore) GetExamPrep(id uint) (*models.ExamPrep, error) {
	prep, ok := f.preps[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return prep, nil
}

func (f *fakeExamStore) ListExamPreps(userID uint) ([]models.ExamPrep, error) {
	var preps []models.ExamPrep
	for _, p := range f.preps {
		if p.UserID == userID {
			preps = append(preps, *p)
		}
	}
	return preps, nil
}

func (f *fakeExamStore) DeleteExamPrep(id uint) error {
	delete(f.preps, id)
	return nil
}

func (f *fakeExamStore) DeactivateSiblings(userID, exceptID uint) error {
	f.deactivated = append(f.deactivated, exceptID)
	for _, p := range f.preps {
		if p.UserID == userID && p.ID != exceptID {
			p.IsActive = false
		}
	}
	return nil
}

func (f *fakeExamStore) SetActive(id uint, active bool) error {
	f.activated = append(f.activated, id)
	if p, ok := f.preps[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (f *fakeExamStore) CreateAttempt(attempt *models.ExamPrepAttempt) error {
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeExamStore) ListAttempts(userID uint) ([]models.ExamPrepAttempt, error) {
	return f.attempts, nil
}

type fakeGenerator struct {
	questions []ai.GeneratedQuestion
	err       error
	gotReq    ai.ExamRequest
}

func (f *fakeGenerator) GenerateLessonContent(ctx context.Context, req ai.LessonRequest) (*ai.GeneratedLesson, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGenerator) GenerateExamQuestions(ctx context.Context, req ai.ExamRequest) ([]ai.GeneratedQuestion, error) {
	f.gotReq = req
	return f.questions, f.err
}

type fakeGamifier struct {
	calls  int
	scores []float64
	err    error
}

func (f *fakeGamifier) ApplyExamResult(userID uint, score float64) error {
	f.calls++
	f.scores = append(f.scores, score)
	return f.err
}

func fourOptions(correct int) ai.GeneratedQuestion {
	return ai.GeneratedQuestion{
		Question:           "What is 2+2?",
		Options:            []string{"3", "4", "5", "6"},
		CorrectOptionIndex: correct,
		Explanation:        "Basic addition",
	}
}

func TestCreateExamPrep(t *testing.T) {
	store := newFakeExamStore()
	store.lessons = []models.Lesson{
		{Topic: "Addition", MainContent: "Adding numbers."},
		{Topic: "Subtraction", MainContent: "Taking away."},
	}
	store.lessons[0].ID = 7
	store.lessons[1].ID = 9
	gen := &fakeGenerator{questions: []ai.GeneratedQuestion{fourOptions(1), fourOptions(2)}}
	svc := NewService(store, gen, nil, zap.NewNop().Sugar())

	prep, err := svc.CreateExamPrep(context.Background(), 1, "Mathematics", "8", 2)
	if err != nil {
		t.Fatalf("CreateExamPrep returned error: %v", err)
	}

	if prep.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", prep.TotalQuestions)
	}
	if !prep.IsActive {
		t.Error("new prep must be active")
	}
	if prep.Questions[0].Position != 0 || prep.Questions[1].Position != 1 {
		t.Errorf("positions = %d,%d, want 0,1", prep.Questions[0].Position, prep.Questions[1].Position)
	}
	if got := []uint(prep.SourceLessonIDs); len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Errorf("SourceLessonIDs = %v, want [7 9]", got)
	}
	if gen.gotReq.QuestionCount != 2 || gen.gotReq.Subject != "Mathematics" {
		t.Errorf("generator request = %+v", gen.gotReq)
	}
	// Siblings deactivated before the new prep goes active.
	if len(store.deactivated) != 1 || len(store.activated) != 1 {
		t.Errorf("deactivate/activate calls = %d/%d, want 1/1", len(store.deactivated), len(store.activated))
	}
}

func TestCreateExamPrep_Validation(t *testing.T) {
	store := newFakeExamStore()
	store.lessons = []models.Lesson{{Topic: "A"}}
	gen := &fakeGenerator{questions: []ai.GeneratedQuestion{fourOptions(0)}}
	svc := NewService(store, gen, nil, zap.NewNop().Sugar())

	tests := []struct {
		name       string
		subject    string
		classLevel string
		count      int
	}{
		{"missing subject", "", "8", 10},
		{"bad class level", "Mathematics", "13", 10},
		{"count over limit", "Mathematics", "8", 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExamPrep(context.Background(), 1, tt.subject, tt.classLevel, tt.count)
			if !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateExamPrep_NoLessons(t *testing.T) {
	store := newFakeExamStore()
	svc := NewService(store, &fakeGenerator{}, nil, zap.NewNop().Sugar())

	_, err := svc.CreateExamPrep(context.Background(), 1, "Mathematics", "8", 10)
	if !apperr.IsValidation(err) {
		t.Errorf("expected validation error for empty lesson history, got %v", err)
	}
}

func TestCreateExamPrep_GenerationFailurePropagates(t *testing.T) {
	store := newFakeExamStore()
	store.lessons = []models.Lesson{{Topic: "A"}}
	gen := &fakeGenerator{err: apperr.ErrGeneration}
	svc := NewService(store, gen, nil, zap.NewNop().Sugar())

	_, err := svc.CreateExamPrep(context.Background(), 1, "Mathematics", "8", 10)
	if !apperr.IsGeneration(err) {
		t.Errorf("expected generation error, got %v", err)
	}
	if len(store.preps) != 0 {
		t.Error("no prep should persist when generation fails")
	}
}

func TestCreateExamPrep_WrongOptionCountStored(t *testing.T) {
	store := newFakeExamStore()
	store.lessons = []models.Lesson{{Topic: "A"}}
	three := ai.GeneratedQuestion{Question: "Q", Options: []string{"a", "b", "c"}, CorrectOptionIndex: 0}
	gen := &fakeGenerator{questions: []ai.GeneratedQuestion{three}}
	svc := NewService(store, gen, nil, zap.NewNop().Sugar())

	prep, err := svc.CreateExamPrep(context.Background(), 1, "Mathematics", "8", 1)
	if err != nil {
		t.Fatalf("CreateExamPrep returned error: %v", err)
	}
	if got := len(prep.Questions[0].Options); got != 3 {
		t.Errorf("stored option count = %d, want 3 (stored as returned)", got)
	}
}

func TestGetExamPrep_Ownership(t *testing.T) {
	store := newFakeExamStore()
	store.preps[5] = &models.ExamPrep{UserID: 2}
	store.preps[5].ID = 5
	svc := NewService(store, &fakeGenerator{}, nil, zap.NewNop().Sugar())

	if _, err := svc.GetExamPrep(1, 5); !apperr.IsOwnership(err) {
		t.Errorf("expected ownership error, got %v", err)
	}
	if _, err := svc.GetExamPrep(1, 99); !apperr.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSubmitAttempt(t *testing.T) {
	store := newFakeExamStore()
	prep := &models.ExamPrep{
		UserID: 1,
		Questions: []models.ExamQuestion{
			{Position: 0, CorrectOptionIndex: 1},
			{Position: 1, CorrectOptionIndex: 2},
		},
	}
	prep.ID = 3
	store.preps[3] = prep
	gamifier := &fakeGamifier{}
	svc := NewService(store, &fakeGenerator{}, gamifier, zap.NewNop().Sugar())

	outcome, err := svc.SubmitAttempt(1, 3, []SubmittedAnswer{{QuestionIndex: 0, SelectedOption: 1}}, nil)
	if err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}

	if outcome.Reference == "" {
		t.Error("expected a non-empty attempt reference")
	}
	if outcome.Result.Score != 50.0 {
		t.Errorf("Score = %v, want 50", outcome.Result.Score)
	}
	if len(store.attempts) != 1 {
		t.Fatalf("stored %d attempts, want 1", len(store.attempts))
	}
	if store.attempts[0].Reference != outcome.Reference {
		t.Error("stored attempt reference mismatch")
	}
	if gamifier.calls != 1 || gamifier.scores[0] != 50.0 {
		t.Errorf("gamifier calls = %d scores = %v, want one call with 50", gamifier.calls, gamifier.scores)
	}
}

func TestSubmitAttempt_NilAnswersRejected(t *testing.T) {
	store := newFakeExamStore()
	svc := NewService(store, &fakeGenerator{}, nil, zap.NewNop().Sugar())

	if _, err := svc.SubmitAttempt(1, 3, nil, nil); !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSubmitAttempt_GamifierFailureSwallowed(t *testing.T) {
	store := newFakeExamStore()
	prep := &models.ExamPrep{UserID: 1, Questions: []models.ExamQuestion{{CorrectOptionIndex: 0}}}
	prep.ID = 3
	store.preps[3] = prep
	gamifier := &fakeGamifier{err: errors.New("redis down")}
	svc := NewService(store, &fakeGenerator{}, gamifier, zap.NewNop().Sugar())

	outcome, err := svc.SubmitAttempt(1, 3, []SubmittedAnswer{}, nil)
	if err != nil {
		t.Fatalf("attempt must survive gamification failure, got %v", err)
	}
	if outcome == nil || len(store.attempts) != 1 {
		t.Error("attempt should be stored despite gamification failure")
	}
}
