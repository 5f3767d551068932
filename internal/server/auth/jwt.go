// Package auth signs the short-lived values the OAuth flow parks in cookies
// between the redirect to the provider and the callback.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/janusipm/brandvigilante/internal/common"
)

// TransientClaims carries one opaque value bound to a purpose, so a state
// cookie cannot be replayed as a verifier cookie.
type TransientClaims struct {
	jwt.RegisteredClaims
	Value string `json:"v"`
}

// SignTransient wraps value in an HS256 token that expires after ttl.
func SignTransient(purpose, value string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TransientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   purpose,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Value: value,
	})

	return token.SignedString(secretKey)
}

// ParseTransient returns the value signed for purpose. Expired tokens yield
// common.ErrTokenExpired; anything else wrong yields common.ErrInvalidToken.
func ParseTransient(tokenString, purpose string, secretKey []byte) (string, error) {
	claims := &TransientClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(purpose))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Value == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Value, nil
}
