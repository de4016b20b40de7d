package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
)

type notifierStub struct {
	sent    []StreakReminder
	failFor string
}

func (stub *notifierStub) Notify(_ context.Context, reminder StreakReminder) error {
	if reminder.UserID == stub.failFor {
		return errors.New("mailbox unavailable")
	}
	stub.sent = append(stub.sent, reminder)
	return nil
}

func streakLastActive(t *testing.T, userID string, current int, raw string) models.Streak {
	t.Helper()
	day := mustParseServiceDay(t, raw)
	return models.Streak{UserID: userID, CurrentStreak: current, LongestStreak: current, LastActiveDate: &day}
}

func TestStreaksAtRiskSelectsYesterdayOnly(t *testing.T) {
	streaks := newStreakStoreStub()
	streaks.streaks["yesterday"] = streakLastActive(t, "yesterday", 3, "2026-03-01")
	streaks.streaks["today"] = streakLastActive(t, "today", 4, "2026-03-02")
	streaks.streaks["stale"] = streakLastActive(t, "stale", 2, "2026-02-20")
	streaks.streaks["broken"] = streakLastActive(t, "broken", 0, "2026-03-01")
	users := newUserStoreStub(models.User{ID: "yesterday", Username: "walker"})

	service := NewReminderService(streaks, users, &notifierStub{}, time.UTC)
	service.now = func() time.Time { return time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC) }

	reminders, err := service.StreaksAtRisk(context.Background())
	if err != nil {
		t.Fatalf("StreaksAtRisk() unexpected error: %v", err)
	}
	if len(reminders) != 1 || reminders[0].UserID != "yesterday" {
		t.Fatalf("expected only the yesterday streak, got %+v", reminders)
	}
	if reminders[0].Username != "walker" || reminders[0].CurrentStreak != 3 {
		t.Fatalf("unexpected reminder %+v", reminders[0])
	}
}

func TestSendRemindersSkipsFailedNotifications(t *testing.T) {
	streaks := newStreakStoreStub()
	streaks.streaks["a"] = streakLastActive(t, "a", 1, "2026-03-01")
	streaks.streaks["b"] = streakLastActive(t, "b", 5, "2026-03-01")
	notifier := &notifierStub{failFor: "a"}

	service := NewReminderService(streaks, newUserStoreStub(), notifier, time.UTC)
	service.now = func() time.Time { return time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC) }

	sent, err := service.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("SendReminders() unexpected error: %v", err)
	}
	if sent != 1 || len(notifier.sent) != 1 || notifier.sent[0].UserID != "b" {
		t.Fatalf("expected one reminder for b, got %d %+v", sent, notifier.sent)
	}
}

func TestNewReminderServiceDefaultsToLogNotifier(t *testing.T) {
	service := NewReminderService(newStreakStoreStub(), newUserStoreStub(), nil, nil)
	if _, ok := service.notifier.(LogReminderNotifier); !ok {
		t.Fatalf("expected LogReminderNotifier default, got %T", service.notifier)
	}
	if service.location != time.UTC {
		t.Fatalf("expected UTC default location")
	}
}
