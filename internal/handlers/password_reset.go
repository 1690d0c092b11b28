package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/services"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	auth *services.AuthService
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(auth *services.AuthService) *PasswordResetHandler {
	return &PasswordResetHandler{auth: auth}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword initiates the reset flow. The response is the same whether
// or not the address belongs to an account.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.EmailRequired)
	}

	if err := h.auth.ForgotPassword(req.Email); err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.PasswordResetEmailSent, nil)
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword applies a new password after checking the reset code.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	if err := h.auth.ResetPassword(req.Email, req.OTP, req.NewPassword, req.ConfirmPassword); err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.PasswordChangeSuccess, nil)
}
