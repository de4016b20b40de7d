package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetJunkLimits(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limits, err := handler.junkLimitService.GetLimits(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err, "failed to load junk limits")
	}
	return c.JSON(limits)
}

func (handler *Handler) UpdateJunkLimit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input junkLimitInput
	if err := parseJSONBody(c, &input); err != nil || input.MaxQuantity == nil {
		return apiError(c, fiber.StatusBadRequest, "max_quantity is required")
	}

	limit, err := handler.junkLimitService.UpdateLimit(c.UserContext(), user.ID, c.Params("type"), *input.MaxQuantity)
	if err != nil {
		return respondServiceError(c, err, "failed to update junk limit")
	}
	return c.JSON(limit)
}
