package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/ritual/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseJSONBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return errors.New("request body is required")
	}
	return c.BodyParser(target)
}

// respondServiceError maps a service error onto an HTTP status. Unknown
// errors are logged and hidden behind the fallback message.
func respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *services.ValidationError
	var duplicateErr *services.DuplicateActivityError

	switch {
	case errors.As(err, &duplicateErr):
		return apiError(c, fiber.StatusConflict, duplicateErr.Error())
	case errors.As(err, &validationErr):
		return apiError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrUsernameTaken):
		return apiError(c, fiber.StatusConflict, "username already taken")
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid email or password")
	case errors.Is(err, services.ErrAuthUsernameInvalid):
		return apiError(c, fiber.StatusBadRequest, "username must be 3-32 letters, digits, dots, dashes or underscores")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "password must be 8-72 characters and contain letters and digits")
	case errors.Is(err, services.ErrAuthPasswordMissing):
		return apiError(c, fiber.StatusBadRequest, "password confirmation is required")
	case errors.Is(err, services.ErrAuthPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "password confirmation is invalid")
	case errors.Is(err, services.ErrAuthNewPasswordReused):
		return apiError(c, fiber.StatusBadRequest, "new password must differ from the current one")
	case errors.Is(err, services.ErrInvalidWorkoutPlan),
		errors.Is(err, services.ErrInvalidCompletion),
		errors.Is(err, services.ErrInvalidJunkLimit),
		errors.Is(err, services.ErrProfileInvalid):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("request failed")
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

func parseDateParam(raw string, field string) (time.Time, error) {
	day, err := services.ParseCalendarDate(raw)
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return day, nil
}

func parseOptionalDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	day, err := parseDateParam(raw, key)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// parseCalendarMonth reads the optional month/year pair. Year alone is
// rejected; month alone uses the current year.
func parseCalendarMonth(c *fiber.Ctx, today time.Time) (*services.CalendarMonth, error) {
	rawMonth := strings.TrimSpace(c.Query("month"))
	rawYear := strings.TrimSpace(c.Query("year"))
	if rawMonth == "" && rawYear == "" {
		return nil, nil
	}
	if rawMonth == "" {
		return nil, &services.ValidationError{Field: "month", Message: "is required with year"}
	}

	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return nil, &services.ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	year := today.Year()
	if rawYear != "" {
		year, err = strconv.Atoi(rawYear)
		if err != nil || year < 1 || year > 9999 {
			return nil, &services.ValidationError{Field: "year", Message: "must be a valid year"}
		}
	}
	return &services.CalendarMonth{Year: year, Month: time.Month(month)}, nil
}

func formatDate(value time.Time) string {
	return value.Format(services.CalendarDateLayout)
}
