package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ritual/internal/services"
)

func (handler *Handler) GetDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.dashboardService.Summary(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err, "failed to load dashboard")
	}
	return c.JSON(summary)
}

func (handler *Handler) GetPoints(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.aggregationService.PointsSummary(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err, "failed to load points")
	}
	return c.JSON(summary)
}

func (handler *Handler) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := handler.aggregationService.Leaderboard(c.UserContext())
	if err != nil {
		return respondServiceError(c, err, "failed to load leaderboard")
	}
	if entries == nil {
		entries = []services.LeaderboardEntry{}
	}
	return c.JSON(entries)
}

func (handler *Handler) GetStreakCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	month, err := parseCalendarMonth(c, services.Today(handler.now(), handler.location))
	if err != nil {
		return respondServiceError(c, err, "failed to load streak calendar")
	}
	calendar, err := handler.aggregationService.StreakCalendar(c.UserContext(), user.ID, month)
	if err != nil {
		return respondServiceError(c, err, "failed to load streak calendar")
	}
	if calendar.Calendar == nil {
		calendar.Calendar = []services.CalendarDay{}
	}
	return c.JSON(calendar)
}
