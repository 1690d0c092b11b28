// Package respond renders every operation outcome as the stable
// {success, return_code, message, data?, errors?} envelope.
package respond

import "github.com/gofiber/fiber/v2"

// Code is a stable machine-readable outcome identifier.
type Code string

const (
	RegistrationSuccess    Code = "REGISTRATION_SUCCESS"
	LoginSuccess           Code = "LOGIN_SUCCESS"
	OTPVerified            Code = "OTP_VERIFIED"
	OTPResent              Code = "OTP_RESENT"
	PasswordResetEmailSent Code = "PASSWORD_RESET_EMAIL_SENT"
	PasswordChangeSuccess  Code = "PASSWORD_CHANGE_SUCCESS"
	LogoutSuccess          Code = "LOGOUT_SUCCESS"
	UserDeletedSuccess     Code = "USER_DELETED_SUCCESS"
	ProfileRetrieved       Code = "PROFILE_RETRIEVED"
	ProfileUpdated         Code = "PROFILE_UPDATED"
	UsersListRetrieved     Code = "USERS_LIST_RETRIEVED"

	ValidationError      Code = "VALIDATION_ERROR"
	InvalidCredentials   Code = "INVALID_CREDENTIALS"
	AccountNotVerified   Code = "ACCOUNT_NOT_VERIFIED"
	EmailRequired        Code = "EMAIL_REQUIRED"
	UserNotFound         Code = "USER_NOT_FOUND"
	EmailOTPRequired     Code = "EMAIL_OTP_REQUIRED"
	OTPRequired          Code = "OTP_REQUIRED"
	OTPInvalid           Code = "OTP_INVALID"
	OTPExpired           Code = "OTP_EXPIRED"
	PasswordRequired     Code = "PASSWORD_REQUIRED"
	PasswordsDoNotMatch  Code = "PASSWORDS_DO_NOT_MATCH"
	TokenInvalid         Code = "TOKEN_INVALID"
	PermissionDenied     Code = "PERMISSION_DENIED"
	EmailAlreadyExists   Code = "EMAIL_ALREADY_EXISTS"
	EmailSendFailed      Code = "EMAIL_SEND_FAILED"
	PasswordPolicyFailed Code = "PASSWORD_LENGTH_INVALID"
)

var messages = map[Code]string{
	RegistrationSuccess:    "Registration successful. OTP sent.",
	LoginSuccess:           "Login successful.",
	OTPVerified:            "OTP verified successfully.",
	OTPResent:              "OTP resent successfully.",
	PasswordResetEmailSent: "Password reset email sent.",
	PasswordChangeSuccess:  "Password changed successfully.",
	LogoutSuccess:          "Logout successful.",
	UserDeletedSuccess:     "User account deleted successfully.",
	ProfileRetrieved:       "Profile retrieved successfully.",
	ProfileUpdated:         "Profile updated successfully.",
	UsersListRetrieved:     "Users list retrieved successfully.",

	ValidationError:      "Validation failed.",
	InvalidCredentials:   "Invalid email or password.",
	AccountNotVerified:   "Please verify your account first.",
	EmailRequired:        "Email is required.",
	UserNotFound:         "User does not exist.",
	EmailOTPRequired:     "Email and OTP are required.",
	OTPRequired:          "OTP is required.",
	OTPInvalid:           "Invalid OTP.",
	OTPExpired:           "OTP has expired.",
	PasswordRequired:     "Password is required.",
	PasswordsDoNotMatch:  "Passwords do not match.",
	TokenInvalid:         "Token is invalid or expired.",
	PermissionDenied:     "Permission denied.",
	EmailAlreadyExists:   "Email already exists.",
	EmailSendFailed:      "Failed to send verification email.",
	PasswordPolicyFailed: "Password must be 8-16 characters long and contain at least one number and one special character.",
}

// Message returns the human-readable text for a code.
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Unknown outcome."
}

// Success writes a success envelope with the given status and optional data.
func Success(c *fiber.Ctx, status int, code Code, data fiber.Map) error {
	body := fiber.Map{
		"success":     true,
		"return_code": code,
		"message":     Message(code),
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// Error writes an error envelope with the given status.
func Error(c *fiber.Ctx, status int, code Code) error {
	return c.Status(status).JSON(fiber.Map{
		"success":     false,
		"return_code": code,
		"message":     Message(code),
	})
}

// FieldErrors writes an error envelope carrying per-field validation errors.
func FieldErrors(c *fiber.Ctx, status int, code Code, errs map[string][]string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":     false,
		"return_code": code,
		"message":     Message(code),
		"errors":      errs,
	})
}
