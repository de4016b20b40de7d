package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ritual/internal/models"
)

func (handler *Handler) GetWorkoutPlan(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	plan, err := handler.workoutService.GetPlan(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err, "failed to load workout plan")
	}
	return c.JSON(plan)
}

// SaveWorkoutPlan replaces the whole plan with the body, a map of weekday
// to workout.
func (handler *Handler) SaveWorkoutPlan(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := models.WorkoutPlanDays{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	saved, err := handler.workoutService.SavePlan(c.UserContext(), user.ID, input)
	if err != nil {
		return respondServiceError(c, err, "failed to save workout plan")
	}
	return c.JSON(saved)
}

func (handler *Handler) GetWorkoutCompletion(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := parseDateParam(c.Params("date"), "date")
	if err != nil {
		return respondServiceError(c, err, "failed to load workout completion")
	}

	completed, err := handler.workoutService.GetCompletion(c.UserContext(), user.ID, day)
	if err != nil {
		return respondServiceError(c, err, "failed to load workout completion")
	}
	return c.JSON(fiber.Map{
		"date":                formatDate(day),
		"completed_exercises": completed,
	})
}

func (handler *Handler) RecordWorkoutCompletion(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := parseDateParam(c.Params("date"), "date")
	if err != nil {
		return respondServiceError(c, err, "failed to save workout completion")
	}

	var input completionInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.CompletedExercises == nil {
		input.CompletedExercises = map[string]bool{}
	}

	entry, err := handler.workoutService.RecordCompletion(c.UserContext(), user.ID, day, models.CompletionMap(input.CompletedExercises))
	if err != nil {
		return respondServiceError(c, err, "failed to save workout completion")
	}
	return c.JSON(completionResponse{
		Date:               formatDate(entry.CompletionDate),
		DayOfWeek:          entry.DayOfWeek,
		CompletedExercises: entry.CompletedExercises.Data(),
		PointsAwarded:      entry.PointsAwarded,
	})
}
