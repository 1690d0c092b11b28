package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/services"
)

// ProfileHandler manages the authenticated user's own profile.
type ProfileHandler struct {
	auth *services.AuthService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(auth *services.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// GetProfile returns the authenticated user's public profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
	}

	return respond.Success(c, fiber.StatusOK, respond.ProfileRetrieved, fiber.Map{
		"user": user.Public(),
	})
}

// UpdateProfile applies partial edits to the caller's own record.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
	}

	var req services.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	updated, err := h.auth.EditUser(user, user.ID, req)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.ProfileUpdated, fiber.Map{
		"user": updated.Public(),
	})
}
