package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
	"github.com/example/accounts/internal/validation"
)

// AuthService orchestrates registration, verification, sign-in and the
// password flows over the credential and OTP stores.
type AuthService struct {
	users store.UserStore
	codes store.OTPStore
	mail  Mailer
	cfg   *config.Config
}

// NewAuthService constructs an AuthService.
func NewAuthService(users store.UserStore, codes store.OTPStore, mail Mailer, cfg *config.Config) *AuthService {
	return &AuthService{users: users, codes: codes, mail: mail, cfg: cfg}
}

// RegisterInput carries the self-registration fields.
type RegisterInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ProfilePicture  string `json:"profile_picture"`
	PhoneNumber     string `json:"phone_number"`
}

func (in *RegisterInput) validate() *Error {
	// Confirmation mismatch is checked first so the most actionable error
	// is the one reported.
	fieldErr := validation.First(
		validation.PasswordsMatch(in.Password, in.ConfirmPassword),
		validation.Required("first_name", in.FirstName),
		validation.Required("last_name", in.LastName),
		validation.Email("email", in.Email),
		validation.Required("address", in.Address),
		validation.Password("password", in.Password),
	)
	if fieldErr == nil {
		return nil
	}
	if fieldErr.Field == "confirm_password" {
		return failFields(respond.PasswordsDoNotMatch, fieldErr.Field, fieldErr.Reason)
	}
	return failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
}

// Register creates an unverified account and dispatches a verification
// code. If the code cannot be delivered the account is rolled back so no
// unverifiable account is left behind.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	in.Email = validation.NormalizeEmail(in.Email)

	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.ByEmail(in.Email); err == nil {
		return nil, fail(http.StatusBadRequest, respond.EmailAlreadyExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Address:        in.Address,
		PasswordHash:   hash,
		ProfilePicture: in.ProfilePicture,
		PhoneNumber:    in.PhoneNumber,
		IsVerified:     false,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, fail(http.StatusBadRequest, respond.EmailAlreadyExists)
		}
		return nil, err
	}

	if err := s.sendVerificationCode(user); err != nil {
		_ = s.users.Delete(user.ID)
		return nil, fail(http.StatusInternalServerError, respond.EmailSendFailed)
	}

	return user, nil
}

// VerifyEmail consumes a live verification code and marks the account
// verified. A missing user and a wrong code are indistinguishable.
func (s *AuthService) VerifyEmail(email, code string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || code == "" {
		return nil, fail(http.StatusBadRequest, respond.EmailOTPRequired)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail(http.StatusBadRequest, respond.OTPInvalid)
		}
		return nil, err
	}

	outcome, err := s.codes.Verify(user.ID, models.CodeKindEmailVerify, code)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case store.OutcomeExpired:
		return nil, fail(http.StatusBadRequest, respond.OTPExpired)
	case store.OutcomeInvalid:
		return nil, fail(http.StatusBadRequest, respond.OTPInvalid)
	}

	user.IsVerified = true
	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// SignInResult bundles a signed-in user and their tokens.
type SignInResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// SignIn authenticates by email and password. An unknown email and a wrong
// password report the same generic error. A correct password against an
// unverified account issues a fresh verification code instead of a session.
func (s *AuthService) SignIn(email, password string) (*SignInResult, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return nil, fail(http.StatusBadRequest, respond.EmailRequired)
	}
	if password == "" {
		return nil, fail(http.StatusBadRequest, respond.PasswordRequired)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail(http.StatusUnauthorized, respond.InvalidCredentials)
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, fail(http.StatusUnauthorized, respond.InvalidCredentials)
	}

	if !user.IsVerified {
		if err := s.sendVerificationCode(user); err != nil {
			return nil, fail(http.StatusInternalServerError, respond.EmailSendFailed)
		}
		return nil, fail(http.StatusForbidden, respond.AccountNotVerified)
	}

	return s.issueTokens(user)
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*SignInResult, error) {
	userID, err := utils.ParseToken(s.cfg.JWTSecret, refreshToken, utils.TokenKindRefresh)
	if err != nil {
		return nil, fail(http.StatusUnauthorized, respond.TokenInvalid)
	}

	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail(http.StatusUnauthorized, respond.TokenInvalid)
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AuthService) ChangePassword(user *models.User, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fail(http.StatusBadRequest, respond.PasswordRequired)
	}

	if !utils.CheckPassword(user.PasswordHash, oldPassword) {
		return fail(http.StatusUnauthorized, respond.InvalidCredentials)
	}

	if newPassword == oldPassword {
		return fail(http.StatusBadRequest, respond.PasswordsDoNotMatch)
	}

	if fieldErr := validation.Password("new_password", newPassword)(); fieldErr != nil {
		return failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
	}

	return s.setPassword(user, newPassword)
}

// ForgotPassword issues a reset code when the account exists. The response
// is the same either way so addresses cannot be probed.
func (s *AuthService) ForgotPassword(email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return fail(http.StatusBadRequest, respond.EmailRequired)
	}
	if fieldErr := validation.Email("email", email)(); fieldErr != nil {
		return failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := s.codes.Issue(user.ID, models.CodeKindPasswordReset)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s! Your password reset OTP is: %s. It is valid for %d minutes.",
		user.FirstName, code, int(s.cfg.OTPTTL.Minutes()),
	)
	if err := s.mail.Send(user.Email, "Password Reset Request", body); err != nil {
		return fail(http.StatusInternalServerError, respond.EmailSendFailed)
	}

	return nil
}

// ResetPassword consumes a live reset code and applies the new password.
// The password is validated before the code is checked so a rejected
// password never burns the single-use code.
func (s *AuthService) ResetPassword(email, code, newPassword, confirm string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return fail(http.StatusBadRequest, respond.EmailRequired)
	}
	if code == "" {
		return fail(http.StatusBadRequest, respond.OTPRequired)
	}
	if newPassword == "" {
		return fail(http.StatusBadRequest, respond.PasswordRequired)
	}

	fieldErr := validation.First(
		validation.PasswordsMatch(newPassword, confirm),
		validation.Password("new_password", newPassword),
	)
	if fieldErr != nil {
		if fieldErr.Field == "confirm_password" {
			return failFields(respond.PasswordsDoNotMatch, fieldErr.Field, fieldErr.Reason)
		}
		return failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(http.StatusBadRequest, respond.OTPInvalid)
		}
		return err
	}

	outcome, err := s.codes.Verify(user.ID, models.CodeKindPasswordReset, code)
	if err != nil {
		return err
	}
	switch outcome {
	case store.OutcomeExpired:
		return fail(http.StatusBadRequest, respond.OTPExpired)
	case store.OutcomeInvalid:
		return fail(http.StatusBadRequest, respond.OTPInvalid)
	}

	return s.setPassword(user, newPassword)
}

func (s *AuthService) issueTokens(user *models.User) (*SignInResult, error) {
	access, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, utils.TokenKindAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, utils.TokenKindRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &SignInResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sendVerificationCode(user *models.User) error {
	code, err := s.codes.Issue(user.ID, models.CodeKindEmailVerify)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Welcome %s! Your email verification OTP is: %s. It is valid for %d minutes.",
		user.FirstName, code, int(s.cfg.OTPTTL.Minutes()),
	)
	return s.mail.Send(user.Email, "Email Verification OTP", body)
}

func (s *AuthService) setPassword(user *models.User, plaintext string) error {
	hash, err := utils.HashPassword(plaintext)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(user)
}

// UserByID loads a user record for the middleware and profile endpoints.
func (s *AuthService) UserByID(id uuid.UUID) (*models.User, error) {
	user, err := s.users.ByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail(http.StatusNotFound, respond.UserNotFound)
		}
		return nil, err
	}
	return user, nil
}
