package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"studysphere/internal/config"
	"studysphere/internal/models"
)

func NewPostgresDB(cfg config.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProgress{},
		&models.UserBadge{},
		&models.SubjectProgress{},
		&models.Lesson{},
		&models.ExamPrep{},
		&models.ExamQuestion{},
		&models.QuizAttempt{},
		&models.ExamPrepAttempt{},
		&models.StudyPlan{},
		&models.StudyTask{},
	)
}
