package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/ritual/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *userStoreStub, *streakStoreStub) {
	t.Helper()
	users := newUserStoreStub()
	streaks := newStreakStoreStub()
	service := NewAuthService(&transactorStub{}, users, streaks).WithHashCost(bcrypt.MinCost)
	return service, users, streaks
}

func registerTestUser(t *testing.T, service *AuthService) models.User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		Email:    " Runner@Example.com ",
		Username: "runner",
		Password: "StrongPass1",
	})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	return user
}

func TestRegisterCreatesUserAndZeroStreak(t *testing.T) {
	service, _, streaks := newAuthFixture(t)

	user := registerTestUser(t, service)
	if user.ID == "" || user.Email != "runner@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "StrongPass1" {
		t.Fatalf("expected hashed password")
	}
	streak, ok := streaks.streaks[user.ID]
	if !ok || streak.CurrentStreak != 0 || streak.LongestStreak != 0 || streak.LastActiveDate != nil {
		t.Fatalf("expected zero streak row, got %+v (found=%v)", streak, ok)
	}
}

func TestRegisterRejectsTakenEmailAndUsername(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	registerTestUser(t, service)

	_, err := service.Register(context.Background(), RegisterInput{Email: "RUNNER@example.com", Username: "other", Password: "StrongPass1"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	_, err = service.Register(context.Background(), RegisterInput{Email: "new@example.com", Username: "RUNNER", Password: "StrongPass1"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	_, err = service.Register(context.Background(), RegisterInput{Email: "new@example.com", Username: "fresh", Password: "weak"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticateHidesWhichCredentialFailed(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	user := registerTestUser(t, service)

	got, err := service.Authenticate(context.Background(), "runner@example.com", "StrongPass1")
	if err != nil || got.ID != user.ID {
		t.Fatalf("Authenticate() = %+v, %v", got, err)
	}
	if _, err := service.Authenticate(context.Background(), "runner@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody@example.com", "StrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for unknown email, got %v", err)
	}
}

func TestFindByIDMapsMissingUser(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	if _, err := service.FindByID(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfileStoresTrimmedValues(t *testing.T) {
	service, _, _ := newAuthFixture(t)
	user := registerTestUser(t, service)

	updated, err := service.UpdateProfile(context.Background(), user.ID, "  early riser ", " https://example.com/me.png ")
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}
	if updated.Bio != "early riser" || updated.AvatarURL != "https://example.com/me.png" {
		t.Fatalf("unexpected profile %+v", updated)
	}
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	user := registerTestUser(t, service)

	if err := service.ChangePassword(context.Background(), user.ID, "WrongPass1", "NewStrong2"); !errors.Is(err, ErrAuthPasswordInvalid) {
		t.Fatalf("expected ErrAuthPasswordInvalid, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "StrongPass1", "StrongPass1"); !errors.Is(err, ErrAuthNewPasswordReused) {
		t.Fatalf("expected ErrAuthNewPasswordReused, got %v", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "StrongPass1", "NewStrong2"); err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}
	stored := users.users[user.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("NewStrong2")) != nil {
		t.Fatalf("expected stored hash to match new password")
	}
}

func TestDeleteAccountRequiresPasswordConfirmation(t *testing.T) {
	service, users, _ := newAuthFixture(t)
	user := registerTestUser(t, service)

	if err := service.DeleteAccount(context.Background(), user.ID, "  "); !errors.Is(err, ErrAuthPasswordMissing) {
		t.Fatalf("expected ErrAuthPasswordMissing, got %v", err)
	}
	if err := service.DeleteAccount(context.Background(), user.ID, "WrongPass1"); !errors.Is(err, ErrAuthPasswordInvalid) {
		t.Fatalf("expected ErrAuthPasswordInvalid, got %v", err)
	}
	if len(users.deleted) != 0 {
		t.Fatalf("expected no deletion before confirmation")
	}
	if err := service.DeleteAccount(context.Background(), user.ID, "StrongPass1"); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if len(users.deleted) != 1 || users.deleted[0] != user.ID {
		t.Fatalf("expected account deletion, got %v", users.deleted)
	}
}
