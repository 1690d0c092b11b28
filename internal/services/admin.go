package services

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/respond"
	"github.com/example/accounts/internal/store"
	"github.com/example/accounts/internal/utils"
	"github.com/example/accounts/internal/validation"
)

// ListUsers returns a page of accounts for the admin listing.
func (s *AuthService) ListUsers(q store.ListQuery) ([]models.User, int64, error) {
	return s.users.List(q)
}

// AdminCreateInput extends registration with the admin-only role flag.
type AdminCreateInput struct {
	RegisterInput
	IsAdmin bool `json:"is_admin"`
}

// AdminCreateUser creates an account through the admin surface. The same
// field rules as self-registration apply, but the account is verified
// immediately and no code is dispatched.
func (s *AuthService) AdminCreateUser(in AdminCreateInput) (*models.User, error) {
	in.Email = validation.NormalizeEmail(in.Email)

	if err := in.RegisterInput.validate(); err != nil {
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
		IsVerified:     true,
		IsAdmin:        in.IsAdmin,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, fail(http.StatusBadRequest, respond.EmailAlreadyExists)
		}
		return nil, err
	}

	return user, nil
}

// UpdateInput carries partial profile edits; empty fields are left as-is.
type UpdateInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profile_picture"`
	PhoneNumber    string `json:"phone_number"`
	Password       string `json:"password"`
}

// EditUser applies a partial update to the target account. Admins may edit
// anyone; everyone else only themselves.
func (s *AuthService) EditUser(actor *models.User, targetID uuid.UUID, in UpdateInput) (*models.User, error) {
	if !actor.IsAdmin && actor.ID != targetID {
		return nil, fail(http.StatusForbidden, respond.PermissionDenied)
	}

	user, err := s.users.ByID(targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fail(http.StatusNotFound, respond.UserNotFound)
		}
		return nil, err
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}
	if in.PhoneNumber != "" {
		user.PhoneNumber = in.PhoneNumber
	}

	if in.Email != "" {
		email := validation.NormalizeEmail(in.Email)
		if fieldErr := validation.Email("email", email)(); fieldErr != nil {
			return nil, failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
		}
		user.Email = email
	}

	if in.Password != "" {
		if fieldErr := validation.Password("password", in.Password)(); fieldErr != nil {
			return nil, failFields(respond.ValidationError, fieldErr.Field, fieldErr.Reason)
		}
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, fail(http.StatusBadRequest, respond.EmailAlreadyExists)
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account and its codes for good.
func (s *AuthService) DeleteUser(targetID uuid.UUID) error {
	if err := s.users.Delete(targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(http.StatusNotFound, respond.UserNotFound)
		}
		return err
	}
	return nil
}
