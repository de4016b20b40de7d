package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/terraincognita07/ritual/internal/models"
)

func newWorkoutFixture() (*WorkoutService, *workoutStoreStub) {
	users := newUserStoreStub(models.User{ID: "user-1"})
	workouts := newWorkoutStoreStub()
	return NewWorkoutService(&transactorStub{}, users, workouts), workouts
}

func TestSavePlanThenGetPlanRoundTrips(t *testing.T) {
	service, _ := newWorkoutFixture()
	plan := models.WorkoutPlanDays{
		models.Monday:   {Name: "Push", Exercises: []string{"Bench", "Dips"}},
		models.Thursday: {Name: "Legs", Exercises: []string{"Squat"}},
	}

	if _, err := service.SavePlan(context.Background(), "user-1", plan); err != nil {
		t.Fatalf("SavePlan() unexpected error: %v", err)
	}
	got, err := service.GetPlan(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetPlan() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, plan) {
		t.Fatalf("expected %+v, got %+v", plan, got)
	}
}

func TestGetPlanWithoutPlanIsEmpty(t *testing.T) {
	service, _ := newWorkoutFixture()

	got, err := service.GetPlan(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetPlan() unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil plan, got %#v", got)
	}
}

func TestNormalizeWorkoutPlan(t *testing.T) {
	normalized, err := NormalizeWorkoutPlan(models.WorkoutPlanDays{
		" Monday ": {Name: "  Push ", Exercises: []string{" Bench "}},
	})
	if err != nil {
		t.Fatalf("NormalizeWorkoutPlan() unexpected error: %v", err)
	}
	want := models.WorkoutPlanDays{models.Monday: {Name: "Push", Exercises: []string{"Bench"}}}
	if !reflect.DeepEqual(normalized, want) {
		t.Fatalf("expected %+v, got %+v", want, normalized)
	}

	invalid := []models.WorkoutPlanDays{
		{"funday": {Name: "Push"}},
		{models.Monday: {Name: "  "}},
		{models.Monday: {Name: "Push", Exercises: []string{"Bench", " "}}},
		{"monday": {Name: "A"}, "MONDAY": {Name: "B"}},
	}
	for _, plan := range invalid {
		if _, err := NormalizeWorkoutPlan(plan); !errors.Is(err, ErrInvalidWorkoutPlan) {
			t.Fatalf("expected ErrInvalidWorkoutPlan for %+v, got %v", plan, err)
		}
	}
}

func TestRecordCompletionAwardsTwentyPerDoneExercise(t *testing.T) {
	service, workouts := newWorkoutFixture()
	day := mustParseServiceDay(t, "2026-03-04")

	saved, err := service.RecordCompletion(context.Background(), "user-1", day, models.CompletionMap{
		"wednesday-0": true,
		"wednesday-1": false,
		"wednesday-2": true,
	})
	if err != nil {
		t.Fatalf("RecordCompletion() unexpected error: %v", err)
	}
	if saved.PointsAwarded != 40 {
		t.Fatalf("expected 40 points, got %d", saved.PointsAwarded)
	}
	if saved.DayOfWeek != models.Wednesday {
		t.Fatalf("expected derived weekday wednesday, got %q", saved.DayOfWeek)
	}

	again, err := service.RecordCompletion(context.Background(), "user-1", day, models.CompletionMap{"wednesday-0": true})
	if err != nil {
		t.Fatalf("second RecordCompletion() unexpected error: %v", err)
	}
	if again.ID != saved.ID || again.PointsAwarded != 20 {
		t.Fatalf("expected replacement of row %q with 20 points, got %+v", saved.ID, again)
	}
	if len(workouts.completions) != 1 {
		t.Fatalf("expected one stored completion, got %d", len(workouts.completions))
	}

	completed, err := service.GetCompletion(context.Background(), "user-1", day)
	if err != nil {
		t.Fatalf("GetCompletion() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(completed, models.CompletionMap{"wednesday-0": true}) {
		t.Fatalf("expected replaced map, got %+v", completed)
	}
}

func TestGetCompletionMissingDayIsEmptyAndDoesNotCreate(t *testing.T) {
	service, workouts := newWorkoutFixture()

	completed, err := service.GetCompletion(context.Background(), "user-1", mustParseServiceDay(t, "2026-03-04"))
	if err != nil {
		t.Fatalf("GetCompletion() unexpected error: %v", err)
	}
	if completed == nil || len(completed) != 0 {
		t.Fatalf("expected empty map, got %#v", completed)
	}
	if len(workouts.completions) != 0 {
		t.Fatalf("expected read not to create a row")
	}
}

func TestRecordCompletionRejectsBadInput(t *testing.T) {
	service, _ := newWorkoutFixture()
	day := mustParseServiceDay(t, "2026-03-04")

	for _, slot := range []string{"wednesday", "someday-1", "monday--1", "monday-01"} {
		_, err := service.RecordCompletion(context.Background(), "user-1", day, models.CompletionMap{slot: true})
		if !errors.Is(err, ErrInvalidCompletion) {
			t.Fatalf("expected ErrInvalidCompletion for %q, got %v", slot, err)
		}
	}

	_, err := service.RecordCompletion(context.Background(), "ghost", day, models.CompletionMap{"monday-0": true})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
