package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/ritual/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(c.UserContext(), services.RegisterInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return respondServiceError(c, err, "failed to create account")
	}

	tokens, err := handler.issueTokenPair(&user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	log.WithField("user_id", user.ID).Info("account registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	key := loginLimiterKey(c, input.Email)
	now := handler.now()
	if wait := handler.loginLimiter.blockedFor(key, now, handler.loginAttemptLimit, handler.loginAttemptWindow); wait > 0 {
		c.Set("Retry-After", strconv.Itoa(int(wait.Seconds())))
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.addFailure(key, now, handler.loginAttemptWindow)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return respondServiceError(c, err, "failed to sign in")
	}
	handler.loginLimiter.reset(key)

	tokens, err := handler.issueTokenPair(&user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh trades a refresh token for a new pair. Tokens minted before the
// last password change no longer match the stored hash and are refused.
func (handler *Handler) Refresh(c *fiber.Ctx) error {
	var input refreshInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	claims, err := services.ParseSessionToken(handler.secretKey, input.RefreshToken, services.TokenPurposeRefresh, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	user, err := handler.authService.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
		}
		return respondServiceError(c, err, "failed to refresh session")
	}
	if !services.IsPasswordStateFingerprintMatch(claims.PasswordState, user.PasswordHash) {
		return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	tokens, err := handler.issueTokenPair(&user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(tokens)
}
