// Package token mints and verifies the long-lived/short-lived credential pair.
//
// A long-lived token proves a successful login and is exchanged for short-lived
// tokens; a short-lived token is presented on every request and carries the
// device fingerprint it was issued to. Both are stateless HS256 JWTs signed with
// different secrets, so neither can be revoked before it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissing indicates no token was presented.
	ErrMissing = errors.New("token missing")
	// ErrExpired indicates the token's expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid indicates any other verification failure.
	ErrInvalid = errors.New("token invalid")
)

// Claims is the payload of both token kinds. Device is empty on long tokens.
type Claims struct {
	UserID  string `json:"userId"`
	UserKey string `json:"userKey"`
	Role    string `json:"role"`
	Device  string `json:"device,omitempty"`
	jwt.RegisteredClaims
}

var signingMethod = jwt.SigningMethodHS256

func sign(claims Claims, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.Subject = claims.UserID
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// verify checks signature, algorithm and expiry. A token whose expiry has
// passed reports ErrExpired whether or not its signature is valid.
func verify(tokenString string, secret []byte, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissing
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err == nil {
		return claims, nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) || expiredUnverified(tokenString, now) {
		return nil, ErrExpired
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
}

func expiredUnverified(tokenString string, now time.Time) bool {
	claims, err := parseUnverified(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

func parseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return claims, nil
}
