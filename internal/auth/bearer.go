// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer "

	// TokenTTL is how long a /admin/login-issued token remains valid.
	TokenTTL = 15 * time.Minute
)

// AdminClaims is the payload of an admin bearer token.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// SigningKey is a per-process random HMAC key: admin tokens never
// survive a restart, so there is no need to persist it.
type SigningKey []byte

// NewSigningKey returns a fresh random 32-byte signing key.
func NewSigningKey() (SigningKey, error) {
	k := make([]byte, 32)
	if _, err := rand.Read(k); err != nil {
		return nil, err
	}
	return k, nil
}

// IssueToken mints a signed, expiring admin bearer token.
func IssueToken(key SigningKey) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(key))
}

// VerifyToken parses and validates a token string minted by IssueToken.
func VerifyToken(tokenString string, key SigningKey) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(key), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

var ErrMissingBearer = errors.New("auth: missing or malformed bearer token")

// ParseBearerHeader extracts the token from an Authorization header value.
func ParseBearerHeader(header string) (string, error) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingBearer
	}
	return header[len(bearerPrefix):], nil
}

// RequireAdminToken extracts and verifies an admin bearer token from r,
// returning the appropriate HTTP status code to report on failure.
func RequireAdminToken(r *http.Request, key SigningKey) (int, error) {
	tokenString, err := ParseBearerHeader(r.Header.Get("Authorization"))
	if err != nil {
		return http.StatusUnauthorized, err
	}
	if _, err := VerifyToken(tokenString, key); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return http.StatusUnauthorized, err
		default:
			return http.StatusUnauthorized, err
		}
	}
	return http.StatusOK, nil
}
