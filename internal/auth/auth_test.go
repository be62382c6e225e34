// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHashAndVerify(t *testing.T) {
	hash, err := CreateHash("correct-horse-battery-staple", DefaultParams)
	require.NoError(t, err)

	ok, err := Verify("correct-horse-battery-staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, err := Verify("x", "not-a-valid-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestIssueAndVerifyToken(t *testing.T) {
	key, err := NewSigningKey()
	require.NoError(t, err)

	tok, err := IssueToken(key)
	require.NoError(t, err)

	claims, err := VerifyToken(tok, key)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	key1, err := NewSigningKey()
	require.NoError(t, err)
	key2, err := NewSigningKey()
	require.NoError(t, err)

	tok, err := IssueToken(key1)
	require.NoError(t, err)

	_, err = VerifyToken(tok, key2)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	key, err := NewSigningKey()
	require.NoError(t, err)

	claims := AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	_, err = VerifyToken(tok, key)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseBearerHeader(t *testing.T) {
	tok, err := ParseBearerHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	_, err = ParseBearerHeader("Basic abc123")
	assert.ErrorIs(t, err, ErrMissingBearer)

	_, err = ParseBearerHeader("")
	assert.ErrorIs(t, err, ErrMissingBearer)
}

func TestRequireAdminToken(t *testing.T) {
	key, err := NewSigningKey()
	require.NoError(t, err)
	tok, err := IssueToken(key)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	status, err := RequireAdminToken(r, key)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	r2 := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	status2, err2 := RequireAdminToken(r2, key)
	assert.Error(t, err2)
	assert.Equal(t, http.StatusUnauthorized, status2)
}
