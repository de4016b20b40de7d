package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ritual/internal/models"
	"github.com/terraincognita07/ritual/internal/services"
)

func (handler *Handler) RecordActivity(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input activityInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	day, err := parseDateParam(input.ActivityDate, "activity_date")
	if err != nil {
		return respondServiceError(c, err, "failed to record activity")
	}
	junkType := ""
	if input.JunkType != nil {
		junkType = *input.JunkType
	}

	result, err := handler.activityService.RecordActivity(c.UserContext(), user.ID, services.ActivityInput{
		Date:         day,
		Steps:        input.Steps,
		JunkType:     junkType,
		JunkQuantity: input.JunkQuantity,
	})
	if err != nil {
		return respondServiceError(c, err, "failed to record activity")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"activity": toActivityResponse(result.Activity),
		"streak":   toStreakResponse(result.Streak),
	})
}

func (handler *Handler) ListActivities(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, err := parseOptionalDateQuery(c, "from")
	if err != nil {
		return respondServiceError(c, err, "failed to load activities")
	}
	to, err := parseOptionalDateQuery(c, "to")
	if err != nil {
		return respondServiceError(c, err, "failed to load activities")
	}
	if from != nil && to != nil && to.Before(*from) {
		return apiError(c, fiber.StatusBadRequest, "to must not be before from")
	}

	entries, err := handler.activityService.ListActivities(c.UserContext(), user.ID, from, to)
	if err != nil {
		return respondServiceError(c, err, "failed to load activities")
	}
	response := make([]activityResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toActivityResponse(entry))
	}
	return c.JSON(response)
}

func toActivityResponse(entry models.DailyActivity) activityResponse {
	return activityResponse{
		ID:           entry.ID,
		ActivityDate: formatDate(entry.ActivityDate),
		Steps:        entry.Steps,
		JunkType:     entry.JunkType,
		JunkQuantity: entry.JunkQuantity,
		Points:       entry.Points,
	}
}

func toStreakResponse(streak models.Streak) streakResponse {
	response := streakResponse{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
	}
	if streak.LastActiveDate != nil {
		lastActive := formatDate(*streak.LastActiveDate)
		response.LastActiveDate = &lastActive
	}
	return response
}
