package lesson

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

func (r *Repository) CreateLesson(lesson *models.Lesson) error {
	return r.db.Create(lesson).Error
}

func (r *Repository) GetLesson(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lesson %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *Repository) ListLessons(userID uint, subject string) ([]models.Lesson, error) {
	query := r.db.Where("user_id = ?", userID)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var lessons []models.Lesson
	err := query.Order("created_at desc").Find(&lessons).Error
	return lessons, err
}

func (r *Repository) MarkCompleted(id uint) error {
	return r.db.Model(&models.Lesson{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

func (r *Repository) CreateQuizAttempt(attempt *models.QuizAttempt) error {
	return r.db.Create(attempt).Error
}
