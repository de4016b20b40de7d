package api

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(user)
}

// UpdateProfile changes only the fields present in the body.
func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input profileInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	bio := user.Bio
	if input.Bio != nil {
		bio = *input.Bio
	}
	avatarURL := user.AvatarURL
	if input.AvatarURL != nil {
		avatarURL = *input.AvatarURL
	}

	updated, err := handler.authService.UpdateProfile(c.UserContext(), user.ID, bio, avatarURL)
	if err != nil {
		return respondServiceError(c, err, "failed to update profile")
	}
	return c.JSON(updated)
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input changePasswordInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.authService.ChangePassword(c.UserContext(), user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		return respondServiceError(c, err, "failed to update password")
	}

	updated, err := handler.authService.FindByID(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, err, "failed to update password")
	}
	tokens, err := handler.issueTokenPair(&updated)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true, "tokens": tokens})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input deleteAccountInput
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.authService.DeleteAccount(c.UserContext(), user.ID, input.Password); err != nil {
		return respondServiceError(c, err, "failed to delete account")
	}

	log.WithField("user_id", user.ID).Info("account deleted")
	return c.SendStatus(fiber.StatusNoContent)
}
