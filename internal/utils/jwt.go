package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind tags a JWT as usable for API calls or only for refresh.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var ErrWrongTokenKind = errors.New("wrong token kind")

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Kind   string `json:"token_kind"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT of the given kind for the provided user ID.
func GenerateToken(secret string, userID uuid.UUID, kind TokenKind, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token, checks its kind, and returns the embedded user ID.
func ParseToken(secret, tokenString string, kind TokenKind) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	if claims.Kind != string(kind) {
		return uuid.Nil, ErrWrongTokenKind
	}

	return uuid.Parse(claims.UserID)
}
