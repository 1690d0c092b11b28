package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
)

const userContextKey = "currentUser"

// Authenticate validates bearer access tokens and loads the authenticated
// user into the request context.
func Authenticate(cfg *config.Config, users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, parts[1], utils.TokenKindAccess)
		if err != nil {
			return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
		}

		user, err := users.ByID(userID)
		if err != nil {
			return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. It must run after
// Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
		}
		if !user.IsAdmin {
			return respond.Error(c, fiber.StatusForbidden, respond.PermissionDenied)
		}
		return c.Next()
	}
}

// CurrentUser extracts the authenticated user from context.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if user, ok := value.(*models.User); ok {
		return user, true
	}

	return nil, false
}
