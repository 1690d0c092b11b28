// Package store holds the persistence contracts for user records and
// one-time codes, plus their GORM implementations.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/accounts/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already taken")
)

// ListQuery narrows and pages the admin users listing.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

// UserStore is the credential store: user records keyed by unique email.
type UserStore interface {
	Create(user *models.User) error
	ByEmail(email string) (*models.User, error)
	ByID(id uuid.UUID) (*models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	List(q ListQuery) ([]models.User, int64, error)
	CountAdmins() (int64, error)
}

// Outcome is the result of checking a supplied one-time code.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeExpired
	OutcomeValid
)

// OTPStore issues and checks one-time codes. Issue replaces any live code
// of the same kind; a successful Verify consumes the code, and an expired
// code is deleted as a side effect of the failed check.
type OTPStore interface {
	Issue(userID uuid.UUID, kind models.CodeKind) (string, error)
	Verify(userID uuid.UUID, kind models.CodeKind, code string) (Outcome, error)
}

// Expired reports whether a code issued at issuedAt is past its window at
// now. The boundary is exclusive: a code is expired strictly after the TTL
// elapses, so elapsed == ttl still verifies.
func Expired(issuedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(issuedAt) > ttl
}
