package planner

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

type fakePlanStore struct {
	plans       map[uint]*models.StudyPlan
	tasks       map[uint]*models.StudyTask
	nextID      uint
	deactivated []uint
	activated   []uint
	saved       int
	dueCounts   map[uint]int
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{
		plans: make(map[uint]*models.StudyPlan),
		tasks: make(map[uint]*models.StudyTask),
	}
}

func (f *fakePlanStore) CreatePlan(plan *models.StudyPlan) error {
	f.nextID++
	plan.ID = f.nextID
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakePlanStore) GetPlan(id uint) (*models.StudyPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return plan, nil
}

func (f *fakePlanStore) ListPlans(userID uint) ([]models.StudyPlan, error) {
	var out []models.StudyPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlanStore) DeletePlan(id uint) error {
	delete(f.plans, id)
	return nil
}

func (f *fakePlanStore) DeactivateSiblings(userID, exceptID uint) error {
	f.deactivated = append(f.deactivated, exceptID)
	for _, p := range f.plans {
		if p.UserID == userID && p.ID != exceptID {
			p.IsActive = false
		}
	}
	return nil
}

func (f *fakePlanStore) SetActive(id uint, active bool) error {
	f.activated = append(f.activated, id)
	if p, ok := f.plans[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (f *fakePlanStore) GetTask(id uint) (*models.StudyTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return task, nil
}

func (f *fakePlanStore) SaveTask(task *models.StudyTask) error {
	f.saved++
	f.tasks[task.ID] = task
	return nil
}

func (f *fakePlanStore) DueTaskCounts(day time.Time) (map[uint]int, error) {
	return f.dueCounts, nil
}

type fakeTaskGamifier struct {
	calls int
	err   error
}

func (f *fakeTaskGamifier) ApplyTaskCompletion(userID uint) error {
	f.calls++
	return f.err
}

func TestCreatePlan(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 1, IsActive: true}
	store.plans[1].ID = 1
	store.nextID = 1
	svc := NewService(store, nil, zap.NewNop().Sugar())

	due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	plan, err := svc.CreatePlan(1, "Finals prep", "Mathematics", nil, []TaskInput{
		{DueDate: due, Topic: "Algebra", DurationMinutes: 45},
	})
	if err != nil {
		t.Fatalf("CreatePlan returned error: %v", err)
	}

	if !plan.IsActive {
		t.Error("new plan must be active")
	}
	if len(plan.Tasks) != 1 || plan.Tasks[0].Topic != "Algebra" {
		t.Errorf("Tasks = %+v, want one Algebra task", plan.Tasks)
	}
	// The previously active plan is deactivated.
	if store.plans[1].IsActive {
		t.Error("older plan should have been deactivated")
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	svc := NewService(newFakePlanStore(), nil, zap.NewNop().Sugar())

	if _, err := svc.CreatePlan(1, "", "Mathematics", nil, nil); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for missing title, got %v", err)
	}
	if _, err := svc.CreatePlan(1, "Plan", "Mathematics", nil, []TaskInput{{Topic: ""}}); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for task without topic, got %v", err)
	}
}

func TestGetPlan_Ownership(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 2}
	store.plans[1].ID = 1
	svc := NewService(store, nil, zap.NewNop().Sugar())

	if _, err := svc.GetPlan(1, 1); !apperr.IsOwnership(err) {
		t.Errorf("expected ownership error, got %v", err)
	}
	if _, err := svc.GetPlan(1, 99); !apperr.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCompleteTask(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 1}
	store.plans[1].ID = 1
	store.tasks[5] = &models.StudyTask{StudyPlanID: 1, Topic: "Algebra"}
	store.tasks[5].ID = 5
	gamifier := &fakeTaskGamifier{}
	svc := NewService(store, gamifier, zap.NewNop().Sugar())

	if err := svc.CompleteTask(1, 1, 5); err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}
	task := store.tasks[5]
	if !task.Completed || task.CompletedAt == nil {
		t.Errorf("task = %+v, want completed with timestamp", task)
	}
	if gamifier.calls != 1 {
		t.Errorf("gamifier called %d times, want 1", gamifier.calls)
	}

	// Completing again is a no-op.
	if err := svc.CompleteTask(1, 1, 5); err != nil {
		t.Fatalf("repeat CompleteTask returned error: %v", err)
	}
	if gamifier.calls != 1 || store.saved != 1 {
		t.Errorf("gamifier calls = %d saves = %d, want 1/1", gamifier.calls, store.saved)
	}
}

func TestCompleteTask_WrongPlan(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 1}
	store.plans[1].ID = 1
	store.tasks[5] = &models.StudyTask{StudyPlanID: 2}
	store.tasks[5].ID = 5
	svc := NewService(store, nil, zap.NewNop().Sugar())

	if err := svc.CompleteTask(1, 1, 5); !apperr.IsNotFound(err) {
		t.Errorf("expected not-found for task outside plan, got %v", err)
	}
}

func TestCompleteTask_GamifierFailureSwallowed(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 1}
	store.plans[1].ID = 1
	store.tasks[5] = &models.StudyTask{StudyPlanID: 1}
	store.tasks[5].ID = 5
	svc := NewService(store, &fakeTaskGamifier{err: errors.New("cache down")}, zap.NewNop().Sugar())

	if err := svc.CompleteTask(1, 1, 5); err != nil {
		t.Fatalf("task completion must survive gamification failure, got %v", err)
	}
	if !store.tasks[5].Completed {
		t.Error("task should stay completed despite gamification failure")
	}
}

func TestActivate(t *testing.T) {
	store := newFakePlanStore()
	store.plans[1] = &models.StudyPlan{UserID: 1, IsActive: true}
	store.plans[1].ID = 1
	store.plans[2] = &models.StudyPlan{UserID: 1}
	store.plans[2].ID = 2
	svc := NewService(store, nil, zap.NewNop().Sugar())

	if err := svc.Activate(1, 2); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if store.plans[1].IsActive {
		t.Error("plan 1 should be inactive")
	}
	if !store.plans[2].IsActive {
		t.Error("plan 2 should be active")
	}
}
