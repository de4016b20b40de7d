package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/ritual/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrAuthPasswordMissing   = errors.New("password confirmation missing")
	ErrAuthPasswordInvalid   = errors.New("password confirmation invalid")
	ErrAuthNewPasswordReused = errors.New("new password must differ")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	ExistsByNormalizedUsername(ctx context.Context, username string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, userID string, bio string, avatarURL string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	DeleteAccountAndRelatedData(ctx context.Context, userID string) error
}

type StreakWriter interface {
	Save(ctx context.Context, streak *models.Streak) error
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type AuthService struct {
	tx       Transactor
	users    AuthUserRepository
	streaks  StreakWriter
	hashCost int
}

func NewAuthService(tx Transactor, users AuthUserRepository, streaks StreakWriter) *AuthService {
	return &AuthService{tx: tx, users: users, streaks: streaks, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (service *AuthService) WithHashCost(cost int) *AuthService {
	service.hashCost = cost
	return service
}

// Register creates the account together with its zeroed streak row.
func (service *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	username, err := NormalizeUsername(input.Username)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(passwordHash),
	}
	err = service.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emailTaken, err := service.users.ExistsByNormalizedEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if emailTaken {
			return ErrEmailTaken
		}
		usernameTaken, err := service.users.ExistsByNormalizedUsername(ctx, strings.ToLower(username))
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if usernameTaken {
			return ErrUsernameTaken
		}

		if err := service.users.Create(ctx, &user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := service.streaks.Save(ctx, &models.Streak{UserID: user.ID}); err != nil {
			return fmt.Errorf("create streak: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for both an unknown email
// and a wrong password.
func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthCredentialsInvalid
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID string) (models.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (service *AuthService) FindByEmail(ctx context.Context, emailRaw string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (service *AuthService) UpdateProfile(ctx context.Context, userID string, bioRaw string, avatarRaw string) (models.User, error) {
	bio, avatarURL, err := NormalizeProfileInput(bioRaw, avatarRaw)
	if err != nil {
		return models.User{}, err
	}
	if _, err := service.FindByID(ctx, userID); err != nil {
		return models.User{}, err
	}
	if err := service.users.UpdateProfile(ctx, userID, bio, avatarURL); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return service.FindByID(ctx, userID)
}

func (service *AuthService) ChangePassword(ctx context.Context, userID string, currentPassword string, newPassword string) error {
	user, err := service.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := service.confirmPassword(user, currentPassword); err != nil {
		return err
	}

	newPassword = strings.TrimSpace(newPassword)
	if newPassword == strings.TrimSpace(currentPassword) {
		return ErrAuthNewPasswordReused
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	return service.storePassword(ctx, userID, newPassword)
}

// SetPassword replaces the password without confirmation. It backs the
// operator reset command.
func (service *AuthService) SetPassword(ctx context.Context, userID string, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	return service.storePassword(ctx, userID, password)
}

func (service *AuthService) DeleteAccount(ctx context.Context, userID string, password string) error {
	user, err := service.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := service.confirmPassword(user, password); err != nil {
		return err
	}
	if err := service.users.DeleteAccountAndRelatedData(ctx, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (service *AuthService) confirmPassword(user models.User, raw string) error {
	password := strings.TrimSpace(raw)
	if password == "" {
		return ErrAuthPasswordMissing
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrAuthPasswordInvalid
	}
	return nil
}

func (service *AuthService) storePassword(ctx context.Context, userID string, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(ctx, userID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
