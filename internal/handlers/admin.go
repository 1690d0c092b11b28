package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/services"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
)

// AdminHandler manages the admin user-management endpoints.
type AdminHandler struct {
	auth *services.AuthService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(auth *services.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// ListUsers returns all registered users with pagination and search.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	users, total, err := h.auth.ListUsers(store.ListQuery{
		Search: c.Query("search"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return renderError(c, err)
	}

	result := make([]map[string]any, len(users))
	for i := range users {
		result[i] = users[i].Public()
	}

	return respond.Success(c, fiber.StatusOK, respond.UsersListRetrieved, fiber.Map{
		"users": result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// AddUser creates an account that is verified immediately.
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	var req services.AdminCreateInput
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	user, err := h.auth.AdminCreateUser(req)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusCreated, respond.RegistrationSuccess, fiber.Map{
		"user": user.Public(),
	})
}

// EditUser applies a partial update to any account.
func (h *AdminHandler) EditUser(c *fiber.Ctx) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respond.Error(c, fiber.StatusNotFound, respond.UserNotFound)
	}

	var req services.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	user, err := h.auth.EditUser(actor, targetID, req)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.ProfileUpdated, fiber.Map{
		"user": user.Public(),
	})
}

// DeleteUser removes an account and everything it owns.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respond.Error(c, fiber.StatusNotFound, respond.UserNotFound)
	}

	if err := h.auth.DeleteUser(targetID); err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.UserDeletedSuccess, nil)
}
