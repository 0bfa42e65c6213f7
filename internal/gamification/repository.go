package gamification

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studysphere/internal/apperr"
	"studysphere/internal/models"
)

// Repository implements Store over gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

func (r *Repository) GetProgress(userID uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.db.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("progress for user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &progress, nil
}

func (r *Repository) SaveProgress(p *models.UserProgress) error {
	return r.db.Save(p).Error
}

// CreateProgress inserts the zeroed progress row for a new user.
func (r *Repository) CreateProgress(userID uint) error {
	return r.db.Create(&models.UserProgress{UserID: userID, Level: 1}).Error
}

func (r *Repository) ListBadgeIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("badge_id", &ids).Error
	return ids, err
}

func (r *Repository) AddBadge(userID uint, badgeID string) error {
	return r.db.Create(&models.UserBadge{UserID: userID, BadgeID: badgeID}).Error
}

func (r *Repository) ListSubjectProgress(userID uint) ([]models.SubjectProgress, error) {
	var rows []models.SubjectProgress
	err := r.db.Where("user_id = ?", userID).Order("subject asc").Find(&rows).Error
	return rows, err
}

func (r *Repository) IncrementSubjectProgress(userID uint, subject string, lessons, quizzes, xp int) error {
	var row models.SubjectProgress
	err := r.db.Where("user_id = ? AND subject = ?", userID, subject).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row = models.SubjectProgress{UserID: userID, Subject: subject}
	}
	row.LessonsCompleted += lessons
	row.QuizzesPassed += quizzes
	row.XPEarned += xp
	return r.db.Save(&row).Error
}

func (r *Repository) CountLessons(userID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.Lesson{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) CountLessonsBySubject(userID uint) (map[string]int, error) {
	type subjectCount struct {
		Subject string
		Total   int
	}
	var rows []subjectCount
	err := r.db.Model(&models.Lesson{}).
		Select("subject, count(*) as total").
		Where("user_id = ?", userID).
		Group("subject").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Subject] = row.Total
	}
	return counts, nil
}

func (r *Repository) CountPerfectQuizzes(userID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND score = ?", userID, PerfectScore).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) BestExamScore(userID uint) (float64, error) {
	var best *float64
	err := r.db.Model(&models.ExamPrepAttempt{}).
		Select("max(score)").
		Where("user_id = ?", userID).
		Scan(&best).Error
	if err != nil {
		return 0, err
	}
	if best == nil {
		return 0, nil
	}
	return *best, nil
}

func (r *Repository) ListAllProgress() ([]models.UserProgress, error) {
	var rows []models.UserProgress
	err := r.db.Find(&rows).Error
	return rows, err
}

func (r *Repository) GetUsernames(userIDs []uint) (map[uint]string, error) {
	if len(userIDs) == 0 {
		return map[uint]string{}, nil
	}

	type userRow struct {
		ID       uint
		Username string
	}
	var rows []userRow
	err := r.db.Model(&models.User{}).
		Select("id, username").
		Where("id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Username
	}
	return names, nil
}
