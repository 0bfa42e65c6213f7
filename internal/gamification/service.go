package gamification

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"studysphere/internal/models"
)

// XP amounts for the primary study actions.
const (
	LessonCompletionXP = 50
	QuizPassXP         = 30
	ExamAttemptXP      = 40
	TaskCompletionXP   = 15

	// PassingScore is the minimum quiz score counted as a pass.
	PassingScore = 50.0

	// PerfectScore is an exact match; only attempts scored at exactly 100
	// count toward QUIZ_MASTER.
	PerfectScore = 100.0
)

// Store is the persistence surface the gamification service needs. Reads
// return apperr.ErrNotFound when the referenced user has no progress row.
type Store interface {
	GetProgress(userID uint) (*models.UserProgress, error)
	SaveProgress(p *models.UserProgress) error
	ListBadgeIDs(userID uint) ([]string, error)
	AddBadge(userID uint, badgeID string) error
	ListSubjectProgress(userID uint) ([]models.SubjectProgress, error)
	IncrementSubjectProgress(userID uint, subject string, lessons, quizzes, xp int) error
	CountLessons(userID uint) (int, error)
	CountLessonsBySubject(userID uint) (map[string]int, error)
	CountPerfectQuizzes(userID uint) (int, error)
	BestExamScore(userID uint) (float64, error)
	GetUsernames(userIDs []uint) (map[uint]string, error)
	ListAllProgress() ([]models.UserProgress, error)
}

// Notifier pushes realtime events to a user's open sessions. Implemented by
// the websocket hub; may be nil in tests and background jobs.
type Notifier interface {
	SendToUser(userID uint, event string, data interface{})
}

// Cache mirrors XP totals into the sorted-set leaderboard and drops stale
// progress snapshots after a write.
type Cache interface {
	SetLeaderboardScore(userID uint, xp int) error
	InvalidateProgress(userID uint) error
	RebuildLeaderboard(scores map[uint]int) error
}

type Service struct {
	store    Store
	cache    Cache
	notifier Notifier
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewService(store Store, cache Cache, notifier Notifier, log *zap.SugaredLogger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// AwardResult reports the outcome of one XP award.
type AwardResult struct {
	NewXP     int  `json:"new_xp"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// AwardXP applies an XP delta, recomputes the level and persists both.
// The stored total never drops below zero. A badge check runs only when the
// recomputed level strictly exceeds the stored one. reason is for logging
// only.
//
// The read-modify-write here is unguarded: two concurrent awards for the same
// user resolve last-write-wins.
func (s *Service) AwardXP(userID uint, amount int, reason string) (*AwardResult, error) {
	progress, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}

	oldLevel := progress.Level
	newXP := progress.XPPoints + amount
	if newXP < 0 {
		newXP = 0
	}
	newLevel := CalculateLevel(newXP)

	progress.XPPoints = newXP
	progress.Level = newLevel
	if err := s.store.SaveProgress(progress); err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}

	s.log.Infow("awarded xp", "user_id", userID, "amount", amount, "reason", reason, "new_xp", newXP, "new_level", newLevel)

	if s.cache != nil {
		if err := s.cache.SetLeaderboardScore(userID, newXP); err != nil {
			s.log.Warnw("leaderboard update failed", "user_id", userID, "error", err)
		}
		if err := s.cache.InvalidateProgress(userID); err != nil {
			s.log.Warnw("progress cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	leveledUp := newLevel > oldLevel
	if leveledUp {
		if s.notifier != nil {
			s.notifier.SendToUser(userID, "level_up", map[string]interface{}{
				"level":       newLevel,
				"xp_points":   newXP,
				"xp_for_next": XPForNextLevel(newXP),
			})
		}
		if _, err := s.CheckAndAwardBadges(userID, Context{Level: &newLevel}); err != nil {
			s.log.Warnw("badge check after level-up failed", "user_id", userID, "error", err)
		}
	}

	return &AwardResult{NewXP: newXP, NewLevel: newLevel, LeveledUp: leveledUp}, nil
}

// RecordDailyActivity runs the streak state machine for "now". When the
// streak moves past day one, the bonus is paid through AwardXP first,
// computed from the previous streak state, and only then are the new streak
// and activity date persisted. No transaction wraps the pair.
func (s *Service) RecordDailyActivity(userID uint) (*StreakUpdate, error) {
	progress, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	today := s.now()
	update := UpdateStreak(progress.DailyStreak, progress.LastActivityDate, today)

	if update.IsNewStreakEvent && update.NewStreak > 1 {
		bonus := (update.NewStreak - 1) * DailyStreakBonus
		if _, err := s.AwardXP(userID, bonus, "daily streak bonus"); err != nil {
			return nil, fmt.Errorf("record activity: %w", err)
		}
		// AwardXP rewrote the progress row; reload before touching it.
		progress, err = s.store.GetProgress(userID)
		if err != nil {
			return nil, fmt.Errorf("record activity: %w", err)
		}
	}

	day := truncateToDay(today)
	progress.DailyStreak = update.NewStreak
	progress.LastActivityDate = &day
	if err := s.store.SaveProgress(progress); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProgress(userID); err != nil {
			s.log.Warnw("progress cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	if update.IsNewStreakEvent {
		streak := update.NewStreak
		if _, err := s.CheckAndAwardBadges(userID, Context{Streak: &streak}); err != nil {
			s.log.Warnw("badge check after streak update failed", "user_id", userID, "error", err)
		}
	}

	return &update, nil
}

// CheckAndAwardBadges loads a fresh snapshot of everything the badge
// predicates read and appends each newly-satisfied badge to the user's set,
// one write per badge. Badges already present are skipped; nothing is ever
// revoked. ctx carries optional hints only; every count is re-derived from
// the snapshot.
func (s *Service) CheckAndAwardBadges(userID uint, ctx Context) ([]string, error) {
	snapshot, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, fmt.Errorf("badge check: %w", err)
	}

	// Hints can only raise values the snapshot has not caught up with yet
	// (e.g. an exam score whose attempt row committed a moment ago).
	if ctx.ExamScore != nil && *ctx.ExamScore > snapshot.BestExamScore {
		snapshot.BestExamScore = *ctx.ExamScore
	}

	newly := EligibleBadges(*snapshot)
	var awarded []string
	for _, badgeID := range newly {
		if err := s.store.AddBadge(userID, badgeID); err != nil {
			s.log.Warnw("badge award failed", "user_id", userID, "badge_id", badgeID, "error", err)
			continue
		}
		awarded = append(awarded, badgeID)
		s.log.Infow("badge awarded", "user_id", userID, "badge_id", badgeID)
		if s.notifier != nil {
			if badge, ok := BadgeByID(badgeID); ok {
				s.notifier.SendToUser(userID, "badge_earned", badge)
			}
		}
	}
	if len(awarded) > 0 && s.cache != nil {
		if err := s.cache.InvalidateProgress(userID); err != nil {
			s.log.Warnw("progress cache invalidation failed", "user_id", userID, "error", err)
		}
	}
	return awarded, nil
}

func (s *Service) loadSnapshot(userID uint) (*Snapshot, error) {
	progress, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, err
	}
	badgeIDs, err := s.store.ListBadgeIDs(userID)
	if err != nil {
		return nil, err
	}
	totalLessons, err := s.store.CountLessons(userID)
	if err != nil {
		return nil, err
	}
	bySubject, err := s.store.CountLessonsBySubject(userID)
	if err != nil {
		return nil, err
	}
	perfect, err := s.store.CountPerfectQuizzes(userID)
	if err != nil {
		return nil, err
	}
	bestExam, err := s.store.BestExamScore(userID)
	if err != nil {
		return nil, err
	}

	earned := make(map[string]bool, len(badgeIDs))
	for _, id := range badgeIDs {
		earned[id] = true
	}

	return &Snapshot{
		Level:            progress.Level,
		Streak:           progress.DailyStreak,
		TotalLessons:     totalLessons,
		LessonsBySubject: bySubject,
		PerfectQuizzes:   perfect,
		BestExamScore:    bestExam,
		Earned:           earned,
	}, nil
}

// ApplyLessonCompletion is the gamification side effect of finishing a
// lesson. Callers treat any error as non-fatal to the lesson itself.
func (s *Service) ApplyLessonCompletion(userID uint, subject string) error {
	if _, err := s.AwardXP(userID, LessonCompletionXP, "lesson completed"); err != nil {
		return err
	}
	if err := s.store.IncrementSubjectProgress(userID, subject, 1, 0, LessonCompletionXP); err != nil {
		return err
	}
	if _, err := s.RecordDailyActivity(userID); err != nil {
		return err
	}
	lessons, err := s.store.CountLessons(userID)
	if err != nil {
		return err
	}
	_, err = s.CheckAndAwardBadges(userID, Context{Subject: &subject, LessonsGenerated: &lessons})
	return err
}

// ApplyQuizResult is the gamification side effect of a scored practice quiz.
func (s *Service) ApplyQuizResult(userID uint, subject string, score float64) error {
	if score >= PassingScore {
		if _, err := s.AwardXP(userID, QuizPassXP, "quiz passed"); err != nil {
			return err
		}
		if err := s.store.IncrementSubjectProgress(userID, subject, 0, 1, QuizPassXP); err != nil {
			return err
		}
	}
	if _, err := s.RecordDailyActivity(userID); err != nil {
		return err
	}
	_, err := s.CheckAndAwardBadges(userID, Context{Subject: &subject})
	return err
}

// ApplyExamResult is the gamification side effect of a scored exam attempt.
func (s *Service) ApplyExamResult(userID uint, score float64) error {
	if _, err := s.AwardXP(userID, ExamAttemptXP, "exam attempt"); err != nil {
		return err
	}
	if _, err := s.RecordDailyActivity(userID); err != nil {
		return err
	}
	_, err := s.CheckAndAwardBadges(userID, Context{ExamScore: &score})
	return err
}

// ApplyTaskCompletion is the gamification side effect of finishing a study
// task.
func (s *Service) ApplyTaskCompletion(userID uint) error {
	if _, err := s.AwardXP(userID, TaskCompletionXP, "study task completed"); err != nil {
		return err
	}
	_, err := s.RecordDailyActivity(userID)
	return err
}

// Overview is the progress view returned to the frontend.
type Overview struct {
	XPPoints         int                      `json:"xp_points"`
	Level            int                      `json:"level"`
	XPForNextLevel   int                      `json:"xp_for_next_level"`
	DailyStreak      int                      `json:"daily_streak"`
	LastActivityDate *time.Time               `json:"last_activity_date,omitempty"`
	Badges           []Badge                  `json:"badges"`
	SubjectProgress  []models.SubjectProgress `json:"subject_progress"`
}

// GetOverview assembles a user's full progress view.
func (s *Service) GetOverview(userID uint) (*Overview, error) {
	progress, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, err
	}
	badgeIDs, err := s.store.ListBadgeIDs(userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.store.ListSubjectProgress(userID)
	if err != nil {
		return nil, err
	}

	badges := make([]Badge, 0, len(badgeIDs))
	for _, id := range badgeIDs {
		if badge, ok := BadgeByID(id); ok {
			badges = append(badges, badge)
		}
	}

	return &Overview{
		XPPoints:         progress.XPPoints,
		Level:            progress.Level,
		XPForNextLevel:   XPForNextLevel(progress.XPPoints),
		DailyStreak:      progress.DailyStreak,
		LastActivityDate: progress.LastActivityDate,
		Badges:           badges,
		SubjectProgress:  subjects,
	}, nil
}

// ResolveUsernames fills display names for leaderboard rows.
func (s *Service) ResolveUsernames(userIDs []uint) (map[uint]string, error) {
	return s.store.GetUsernames(userIDs)
}

// RebuildLeaderboard replaces the cached leaderboard from stored XP totals.
// Run nightly so cache drift heals itself.
func (s *Service) RebuildLeaderboard() error {
	if s.cache == nil {
		return nil
	}
	all, err := s.store.ListAllProgress()
	if err != nil {
		return err
	}
	scores := make(map[uint]int, len(all))
	for _, p := range all {
		scores[p.UserID] = p.XPPoints
	}
	return s.cache.RebuildLeaderboard(scores)
}
