package planner

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

// Store is the persistence surface for study plans and their tasks.
type Store interface {
	CreatePlan(plan *models.StudyPlan) error
	GetPlan(id uint) (*models.StudyPlan, error)
	ListPlans(userID uint) ([]models.StudyPlan, error)
	DeletePlan(id uint) error
	DeactivateSiblings(userID, exceptID uint) error
	SetActive(id uint, active bool) error
	GetTask(id uint) (*models.StudyTask, error)
	SaveTask(task *models.StudyTask) error
	DueTaskCounts(day time.Time) (map[uint]int, error)
}

// Gamifier is the best-effort progress hook for finished tasks.
type Gamifier interface {
	ApplyTaskCompletion(userID uint) error
}

type Service struct {
	store    Store
	gamifier Gamifier
	log      *zap.SugaredLogger
}

func NewService(store Store, gamifier Gamifier, log *zap.SugaredLogger) *Service {
	return &Service{store: store, gamifier: gamifier, log: log}
}

// TaskInput is one task in a plan creation request.
type TaskInput struct {
	DueDate         time.Time `json:"due_date"`
	Topic           string    `json:"topic"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
}

// CreatePlan persists a new plan and makes it the user's active one,
// deactivating siblings first.
func (s *Service) CreatePlan(userID uint, title, subject string, examDate *time.Time, tasks []TaskInput) (*models.StudyPlan, error) {
	if title == "" {
		return nil, fmt.Errorf("plan title is required: %w", apperr.ErrValidation)
	}
	for i, t := range tasks {
		if t.Topic == "" {
			return nil, fmt.Errorf("task %d has no topic: %w", i, apperr.ErrValidation)
		}
	}

	planTasks := make([]models.StudyTask, len(tasks))
	for i, t := range tasks {
		planTasks[i] = models.StudyTask{
			DueDate:         t.DueDate,
			Topic:           t.Topic,
			Description:     t.Description,
			DurationMinutes: t.DurationMinutes,
		}
	}

	plan := &models.StudyPlan{
		UserID:   userID,
		Title:    title,
		Subject:  subject,
		ExamDate: examDate,
		Tasks:    planTasks,
	}
	if err := s.store.CreatePlan(plan); err != nil {
		return nil, err
	}

	if err := s.store.DeactivateSiblings(userID, plan.ID); err != nil {
		return nil, err
	}
	if err := s.store.SetActive(plan.ID, true); err != nil {
		return nil, err
	}
	plan.IsActive = true

	s.log.Infow("study plan created", "user_id", userID, "plan_id", plan.ID, "tasks", len(tasks))
	return plan, nil
}

// GetPlan returns a plan the user owns, tasks included.
func (s *Service) GetPlan(userID, planID uint) (*models.StudyPlan, error) {
	plan, err := s.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("study plan %d: %w", planID, apperr.ErrOwnership)
	}
	return plan, nil
}

// ListPlans returns the user's plans without tasks.
func (s *Service) ListPlans(userID uint) ([]models.StudyPlan, error) {
	return s.store.ListPlans(userID)
}

// Activate makes one plan the active one, deactivating the rest first.
func (s *Service) Activate(userID, planID uint) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}
	if err := s.store.DeactivateSiblings(userID, planID); err != nil {
		return err
	}
	return s.store.SetActive(planID, true)
}

// Delete removes a plan after an ownership check.
func (s *Service) Delete(userID, planID uint) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}
	return s.store.DeletePlan(planID)
}

// CompleteTask marks a task done and awards XP best-effort. Completing an
// already-done task is a no-op.
func (s *Service) CompleteTask(userID, planID, taskID uint) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}

	task, err := s.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if task.StudyPlanID != planID {
		return fmt.Errorf("task %d is not part of plan %d: %w", taskID, planID, apperr.ErrNotFound)
	}
	if task.Completed {
		return nil
	}

	now := time.Now()
	task.Completed = true
	task.CompletedAt = &now
	if err := s.store.SaveTask(task); err != nil {
		return err
	}

	if s.gamifier != nil {
		if err := s.gamifier.ApplyTaskCompletion(userID); err != nil {
			s.log.Warnw("gamification side effect failed after task completion",
				"user_id", userID, "task_id", taskID, "error", err)
		}
	}
	return nil
}
