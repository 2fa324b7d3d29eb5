package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceAuthenticate(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	svc := NewAuthService(hash, "key")
	assert.NoError(t, svc.Authenticate("s3cret"))
	assert.True(t, errors.Is(svc.Authenticate("wrong"), ErrInvalidCredentials))

	disabled := NewAuthService("", "key")
	assert.True(t, errors.Is(disabled.Authenticate("s3cret"), ErrAdminDisabled))
}

func TestAuthServiceIssueToken(t *testing.T) {
	svc := NewAuthService("", "key")
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	signed, err := svc.IssueToken()
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("key"), nil
	}, jwt.WithTimeFunc(func() time.Time { return now.Add(time.Hour) }))
	require.NoError(t, err)

	assert.Equal(t, AdminSubject, claims["sub"])
	assert.Equal(t, AdminRole, claims["role"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, now.Add(tokenLifetime).Equal(exp.Time))
}
