// Package jobs runs the periodic background work of the service.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	reminders ReminderSender
	schedule  string
}

// NewScheduler evaluates schedule in location.
func NewScheduler(reminders ReminderSender, schedule string, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(location)),
		reminders: reminders,
		schedule:  schedule,
	}
}

// Start registers the jobs and starts the cron loop. Jobs stop picking up
// work once ctx is cancelled; call Stop to wait for a running job.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runReminders(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("scheduler started")
	return nil
}

func (s *Scheduler) runReminders(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Debug("streak reminder sweep")
	if _, err := s.reminders.SendReminders(ctx); err != nil {
		log.WithError(err).Error("streak reminder sweep failed")
	}
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
