package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ritual/internal/models"
	"github.com/terraincognita07/ritual/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(authorizationHeader)), " ")
	if !found || !strings.EqualFold(scheme, bearerTokenScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	claims, err := services.ParseSessionToken(handler.secretKey, bearerToken(c), services.TokenPurposeAccess, handler.now())
	if err != nil {
		return nil, err
	}

	user, err := handler.authService.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (handler *Handler) issueTokenPair(user *models.User) (tokenPair, error) {
	now := handler.now()
	accessToken, err := services.BuildSessionToken(handler.secretKey, user.ID, services.TokenPurposeAccess, "", handler.accessTokenTTL, now)
	if err != nil {
		return tokenPair{}, err
	}
	refreshToken, err := services.BuildSessionToken(handler.secretKey, user.ID, services.TokenPurposeRefresh, user.PasswordHash, handler.refreshTokenTTL, now)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(handler.accessTokenTTL.Seconds()),
	}, nil
}
