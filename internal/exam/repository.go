package exam

import (
	"errors"
	"fmt"

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

func (r *Repository) ListLessonsBySubject(userID uint, subject string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Where("user_id = ? AND subject = ?", userID, subject).
		Order("created_at asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *Repository) CreateExamPrep(prep *models.ExamPrep) error {
	return r.db.Create(prep).Error
}

func (r *Repository) GetExamPrep(id uint) (*models.ExamPrep, error) {
	var prep models.ExamPrep
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&prep, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam prep %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &prep, nil
}

func (r *Repository) ListExamPreps(userID uint) ([]models.ExamPrep, error) {
	var preps []models.ExamPrep
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&preps).Error
	return preps, err
}

func (r *Repository) DeleteExamPrep(id uint) error {
	if err := r.db.Where("exam_prep_id = ?", id).Delete(&models.ExamQuestion{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.ExamPrep{}, id).Error
}

func (r *Repository) DeactivateSiblings(userID, exceptID uint) error {
	return r.db.Model(&models.ExamPrep{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, exceptID, true).
		Update("is_active", false).Error
}

func (r *Repository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.ExamPrep{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *Repository) CreateAttempt(attempt *models.ExamPrepAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *Repository) ListAttempts(userID uint) ([]models.ExamPrepAttempt, error) {
	var attempts []models.ExamPrepAttempt
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&attempts).Error
	return attempts, err
}
