package services

import (
	"net/http"

	"github.com/example/accounts/internal/respond"
)

// Error is an operation outcome the handlers render as an error envelope.
type Error struct {
	Status int
	Code   respond.Code
	Fields map[string][]string
}

func (e *Error) Error() string {
	return string(e.Code)
}

func fail(status int, code respond.Code) *Error {
	return &Error{Status: status, Code: code}
}

func failFields(code respond.Code, field, reason string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   code,
		Fields: map[string][]string{field: {reason}},
	}
}
