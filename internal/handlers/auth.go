package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/services"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// renderError maps a service outcome to the error envelope. Anything that
// is not a service error bubbles up to the fiber error handler.
func renderError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if svcErr.Fields != nil {
			return respond.FieldErrors(c, svcErr.Status, svcErr.Code, svcErr.Fields)
		}
		return respond.Error(c, svcErr.Status, svcErr.Code)
	}
	return err
}

// Register creates a new account and dispatches a verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	user, err := h.auth.Register(req)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusCreated, respond.RegistrationSuccess, fiber.Map{
		"user": user.Public(),
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP confirms email ownership with the code sent on registration.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.EmailOTPRequired)
	}

	user, err := h.auth.VerifyEmail(req.Email, req.OTP)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.OTPVerified, fiber.Map{
		"user": user.Public(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing, verified user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.ValidationError)
	}

	// On an unverified account with a correct password the service has
	// already dispatched a fresh code; the 403 tells the client to move to
	// the verification screen.
	result, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.LoginSuccess, fiber.Map{
		"user":          result.User.Public(),
		"role":          result.User.Role(),
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// Logout acknowledges sign-out. Tokens are stateless, so there is nothing
// to revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return respond.Success(c, fiber.StatusOK, respond.LogoutSuccess, nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
	}

	result, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.LoginSuccess, fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the authenticated user's password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respond.Error(c, fiber.StatusUnauthorized, respond.TokenInvalid)
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, fiber.StatusBadRequest, respond.PasswordRequired)
	}

	if err := h.auth.ChangePassword(user, req.OldPassword, req.NewPassword); err != nil {
		return renderError(c, err)
	}

	return respond.Success(c, fiber.StatusOK, respond.PasswordChangeSuccess, nil)
}
