package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	BaseModel
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Email          string        `gorm:"uniqueIndex" json:"email"`
	Address        string        `json:"address"`
	PasswordHash   string        `json:"-"`
	ProfilePicture string        `json:"profile_picture,omitempty"`
	PhoneNumber    string        `json:"phone_number,omitempty"`
	IsVerified     bool          `json:"is_verified"`
	IsAdmin        bool          `json:"is_admin"`
	Codes          []OneTimeCode `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Role reports the caller-facing role name.
func (u *User) Role() string {
	if u.IsAdmin {
		return "Superuser"
	}
	return "User"
}

// Public returns the subset of user fields safe to hand to clients.
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":              u.ID,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"email":           u.Email,
		"address":         u.Address,
		"profile_picture": u.ProfilePicture,
		"phone_number":    u.PhoneNumber,
		"is_verified":     u.IsVerified,
		"role":            u.Role(),
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
	}
}

// CodeKind distinguishes the two one-time-code flows.
type CodeKind string

const (
	CodeKindEmailVerify   CodeKind = "email_verify"
	CodeKindPasswordReset CodeKind = "password_reset"
)

// OneTimeCode stores a live OTP for a user. The composite unique index
// enforces at most one live code per user per kind; issuing a new code
// replaces the existing row.
type OneTimeCode struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_codes_user_kind" json:"user_id"`
	Kind     CodeKind  `gorm:"uniqueIndex:idx_codes_user_kind" json:"kind"`
	Code     string    `json:"-"`
	IssuedAt time.Time `json:"issued_at"`
}
