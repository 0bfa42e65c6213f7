package planner

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Reminders only go out during waking hours.
const (
	notificationStartHour = 8
	notificationEndHour   = 21
)

// Notifier pushes reminder events to a user's open sessions.
type Notifier interface {
	SendToUser(userID uint, event string, data interface{})
}

// LeaderboardRebuilder reconciles the cached leaderboard from storage.
type LeaderboardRebuilder interface {
	RebuildLeaderboard() error
}

// Scheduler runs the background jobs: hourly study reminders and a nightly
// leaderboard reconciliation.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	store       Store
	notifier    Notifier
	leaderboard LeaderboardRebuilder
	log         *zap.SugaredLogger
}

func NewScheduler(store Store, notifier Notifier, leaderboard LeaderboardRebuilder, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		store:       store,
		notifier:    notifier,
		leaderboard: leaderboard,
		log:         log,
	}
}

// Start registers the jobs and runs the scheduler without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.remindDueTasks)
	s.scheduler.Every(1).Day().At("03:00").Do(s.reconcileLeaderboard)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) remindDueTasks() {
	now := time.Now()
	hour := now.Hour()
	if hour < notificationStartHour || hour > notificationEndHour {
		return
	}

	counts, err := s.store.DueTaskCounts(now)
	if err != nil {
		s.log.Errorw("due task scan failed", "error", err)
		return
	}
	if len(counts) == 0 {
		return
	}

	for userID, count := range counts {
		s.notifier.SendToUser(userID, "study_reminder", map[string]interface{}{
			"tasks_due_today": count,
		})
	}
	s.log.Infow("study reminders sent", "users", len(counts))
}

func (s *Scheduler) reconcileLeaderboard() {
	if err := s.leaderboard.RebuildLeaderboard(); err != nil {
		s.log.Errorw("leaderboard reconciliation failed", "error", err)
		return
	}
	s.log.Infow("leaderboard reconciled")
}
