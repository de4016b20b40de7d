package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/ritual/internal/models"
)

type ReminderStreakReader interface {
	ListAlive(ctx context.Context) ([]models.Streak, error)
}

type ReminderUserReader interface {
	ListOrdered(ctx context.Context) ([]models.User, error)
}

type StreakReminder struct {
	UserID         string
	Username       string
	CurrentStreak  int
	LastActiveDate time.Time
}

type ReminderNotifier interface {
	Notify(ctx context.Context, reminder StreakReminder) error
}

// LogReminderNotifier writes reminders to the process log.
type LogReminderNotifier struct{}

func (LogReminderNotifier) Notify(_ context.Context, reminder StreakReminder) error {
	log.WithFields(log.Fields{
		"user_id":          reminder.UserID,
		"username":         reminder.Username,
		"current_streak":   reminder.CurrentStreak,
		"last_active_date": reminder.LastActiveDate.Format(CalendarDateLayout),
	}).Info("streak at risk, no activity recorded today")
	return nil
}

type ReminderService struct {
	streaks  ReminderStreakReader
	users    ReminderUserReader
	notifier ReminderNotifier
	location *time.Location
	now      func() time.Time
}

func NewReminderService(streaks ReminderStreakReader, users ReminderUserReader, notifier ReminderNotifier, location *time.Location) *ReminderService {
	if notifier == nil {
		notifier = LogReminderNotifier{}
	}
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		streaks:  streaks,
		users:    users,
		notifier: notifier,
		location: location,
		now:      time.Now,
	}
}

// StreaksAtRisk lists running streaks whose last active day was yesterday.
// Recording an active day today is the last chance to extend them.
func (service *ReminderService) StreaksAtRisk(ctx context.Context) ([]StreakReminder, error) {
	streaks, err := service.streaks.ListAlive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load streaks: %w", err)
	}
	users, err := service.users.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	yesterday := Today(service.now(), service.location).AddDate(0, 0, -1)
	reminders := make([]StreakReminder, 0)
	for _, streak := range streaks {
		if streak.CurrentStreak <= 0 || streak.LastActiveDate == nil {
			continue
		}
		last := CalendarDate(*streak.LastActiveDate)
		if !last.Equal(yesterday) {
			continue
		}
		reminders = append(reminders, StreakReminder{
			UserID:         streak.UserID,
			Username:       usernames[streak.UserID],
			CurrentStreak:  streak.CurrentStreak,
			LastActiveDate: last,
		})
	}
	return reminders, nil
}

// SendReminders notifies every user in StreaksAtRisk and returns how many
// notifications went out. A failed notification is logged and skipped.
func (service *ReminderService) SendReminders(ctx context.Context) (int, error) {
	reminders, err := service.StreaksAtRisk(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, reminder := range reminders {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := service.notifier.Notify(ctx, reminder); err != nil {
			log.WithError(err).WithField("user_id", reminder.UserID).Warn("streak reminder failed")
			continue
		}
		sent++
	}

	log.WithFields(log.Fields{
		"at_risk": len(reminders),
		"sent":    sent,
	}).Info("streak reminder sweep finished")
	return sent, nil
}
