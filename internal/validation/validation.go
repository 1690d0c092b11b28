// Package validation holds the field rules applied before accounts are
// created or updated. Each operation runs an ordered chain of checks and
// reports the first failure, so the most actionable error (a password
// confirmation mismatch) always wins over later field errors.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 16

	// Symbols accepted as the required special character.
	PasswordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// FieldError reports the first offending field and why it was rejected.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Check is a single validation step.
type Check func() *FieldError

// First runs checks in order and returns the first failure, if any.
func First(checks ...Check) *FieldError {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Required rejects an empty value.
func Required(field, value string) Check {
	return func() *FieldError {
		if strings.TrimSpace(value) == "" {
			return &FieldError{Field: field, Reason: "This field is required."}
		}
		return nil
	}
}

// Email rejects addresses that do not match the address grammar.
func Email(field, value string) Check {
	return func() *FieldError {
		if !emailPattern.MatchString(value) {
			return &FieldError{Field: field, Reason: "Enter a valid email address."}
		}
		return nil
	}
}

// PasswordsMatch rejects a confirmation that differs from the password.
// The comparison is byte-exact and the message never says which side is
// wrong.
func PasswordsMatch(password, confirm string) Check {
	return func() *FieldError {
		if password != confirm {
			return &FieldError{Field: "confirm_password", Reason: "Passwords do not match."}
		}
		return nil
	}
}

// Password enforces the password policy: length within [8,16] and at least
// one uppercase letter, one lowercase letter, one digit and one symbol.
func Password(field, value string) Check {
	return func() *FieldError {
		if len(value) < PasswordMinLen || len(value) > PasswordMaxLen {
			return &FieldError{
				Field:  field,
				Reason: fmt.Sprintf("Password must be %d-%d characters long.", PasswordMinLen, PasswordMaxLen),
			}
		}

		var upper, lower, digit, symbol bool
		for _, r := range value {
			switch {
			case r >= 'A' && r <= 'Z':
				upper = true
			case r >= 'a' && r <= 'z':
				lower = true
			case r >= '0' && r <= '9':
				digit = true
			case strings.ContainsRune(PasswordSymbols, r):
				symbol = true
			}
		}

		switch {
		case !upper:
			return &FieldError{Field: field, Reason: "Password must contain at least one uppercase letter."}
		case !lower:
			return &FieldError{Field: field, Reason: "Password must contain at least one lowercase letter."}
		case !digit:
			return &FieldError{Field: field, Reason: "Password must contain at least one number."}
		case !symbol:
			return &FieldError{Field: field, Reason: "Password must contain at least one special character."}
		}
		return nil
	}
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique
// index agree on case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
