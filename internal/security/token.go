package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs and validates short-lived API access tokens for
// clients that cannot hold cookies (the mobile app).
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

// NewTokenIssuer creates a token issuer. An empty secret disables the
// issuer; Issue and Validate then return ErrInvalidToken.
func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

type apiClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user
func (ti *TokenIssuer) Issue(userID int64) (string, error) {
	if len(ti.secret) == 0 {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := apiClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vocadrill",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns the user ID it was issued for
func (ti *TokenIssuer) Validate(tokenString string) (int64, error) {
	if len(ti.secret) == 0 {
		return 0, ErrInvalidToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &apiClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
