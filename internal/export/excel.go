package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"studysphere/internal/gamification"
	"studysphere/internal/models"
)

const (
	overviewSheet = "Overview"
	badgesSheet   = "Badges"
	subjectsSheet = "Subjects"
	attemptsSheet = "Exam Attempts"
)

// ProgressSource provides the progress view that feeds the report.
type ProgressSource interface {
	GetOverview(userID uint) (*gamification.Overview, error)
}

// AttemptSource provides the user's exam attempt history.
type AttemptSource interface {
	ListAttempts(userID uint) ([]models.ExamPrepAttempt, error)
}

// Exporter renders a user's full study record as an Excel workbook.
type Exporter struct {
	progress ProgressSource
	attempts AttemptSource
}

func NewExporter(progress ProgressSource, attempts AttemptSource) *Exporter {
	return &Exporter{progress: progress, attempts: attempts}
}

// WriteReport builds the workbook for the user and streams it to w.
func (e *Exporter) WriteReport(userID uint, w io.Writer) error {
	overview, err := e.progress.GetOverview(userID)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	attempts, err := e.attempts.ListAttempts(userID)
	if err != nil {
		return fmt.Errorf("failed to load attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverviewSheet(f, overview); err != nil {
		return err
	}
	if err := writeBadgesSheet(f, overview.Badges); err != nil {
		return err
	}
	if err := writeSubjectsSheet(f, overview.SubjectProgress); err != nil {
		return err
	}
	if err := writeAttemptsSheet(f, attempts); err != nil {
		return err
	}

	// Drop the default sheet so Overview opens first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to finalize workbook: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeOverviewSheet(f *excelize.File, overview *gamification.Overview) error {
	if _, err := f.NewSheet(overviewSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	lastActivity := ""
	if overview.LastActivityDate != nil {
		lastActivity = overview.LastActivityDate.Format("2006-01-02")
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"XP Points", overview.XPPoints},
		{"Level", overview.Level},
		{"XP For Next Level", overview.XPForNextLevel},
		{"Daily Streak", overview.DailyStreak},
		{"Last Activity", lastActivity},
		{"Badges Earned", len(overview.Badges)},
	}
	return writeRows(f, overviewSheet, rows)
}

func writeBadgesSheet(f *excelize.File, badges []gamification.Badge) error {
	if _, err := f.NewSheet(badgesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]interface{}{{"Badge", "Name", "Description"}}
	for _, badge := range badges {
		rows = append(rows, []interface{}{badge.ID, badge.Name, badge.Description})
	}
	return writeRows(f, badgesSheet, rows)
}

func writeSubjectsSheet(f *excelize.File, subjects []models.SubjectProgress) error {
	if _, err := f.NewSheet(subjectsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]interface{}{{"Subject", "Lessons Completed", "Quizzes Passed", "XP Earned"}}
	for _, subject := range subjects {
		rows = append(rows, []interface{}{
			subject.Subject,
			subject.LessonsCompleted,
			subject.QuizzesPassed,
			subject.XPEarned,
		})
	}
	return writeRows(f, subjectsSheet, rows)
}

func writeAttemptsSheet(f *excelize.File, attempts []models.ExamPrepAttempt) error {
	if _, err := f.NewSheet(attemptsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]interface{}{{"Date", "Reference", "Questions", "Correct", "Score", "Time Spent (s)"}}
	for _, attempt := range attempts {
		timeSpent := interface{}(nil)
		if attempt.TimeSpent != nil {
			timeSpent = *attempt.TimeSpent
		}
		rows = append(rows, []interface{}{
			attempt.CreatedAt.Format(time.RFC3339),
			attempt.Reference,
			attempt.TotalQuestions,
			attempt.CorrectAnswers,
			attempt.Score,
			timeSpent,
		})
	}
	return writeRows(f, attemptsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
