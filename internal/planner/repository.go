package planner

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

func (r *Repository) CreatePlan(plan *models.StudyPlan) error {
	return r.db.Create(plan).Error
}

func (r *Repository) GetPlan(id uint) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	err := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("due_date asc")
	}).First(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study plan %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) ListPlans(userID uint) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&plans).Error
	return plans, err
}

func (r *Repository) DeletePlan(id uint) error {
	if err := r.db.Where("study_plan_id = ?", id).Delete(&models.StudyTask{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.StudyPlan{}, id).Error
}

func (r *Repository) DeactivateSiblings(userID, exceptID uint) error {
	return r.db.Model(&models.StudyPlan{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, exceptID, true).
		Update("is_active", false).Error
}

func (r *Repository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.StudyPlan{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *Repository) GetTask(id uint) (*models.StudyTask, error) {
	var task models.StudyTask
	err := r.db.First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("study task %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}

func (r *Repository) SaveTask(task *models.StudyTask) error {
	return r.db.Save(task).Error
}

// DueTaskCounts returns, per user, how many incomplete tasks from active
// plans fall on the given day.
func (r *Repository) DueTaskCounts(day time.Time) (map[uint]int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	type dueRow struct {
		UserID uint
		Total  int
	}
	var rows []dueRow
	err := r.db.Model(&models.StudyTask{}).
		Select("study_plans.user_id as user_id, count(*) as total").
		Joins("JOIN study_plans ON study_plans.id = study_tasks.study_plan_id").
		Where("study_plans.is_active = ? AND study_plans.deleted_at IS NULL", true).
		Where("study_tasks.completed = ?", false).
		Where("study_tasks.due_date >= ? AND study_tasks.due_date < ?", start, end).
		Group("study_plans.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}
