package jwtinfra

import (
	"testing"
	"time"

	"github.com/go-api-sql/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(secret string, expiry time.Duration) *Provider {
	return NewProvider(&config.Config{JWTSecret: secret, JWTExpiry: expiry})
}

func TestSignVerify_Roundtrip(t *testing.T) {
	p := newTestProvider("test-secret", 2*time.Hour)

	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newTestProvider("test-secret", -time.Hour)

	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_WrongKey(t *testing.T) {
	signer := newTestProvider("key-one", 2*time.Hour)
	verifier := newTestProvider("key-two", 2*time.Hour)

	token, err := signer.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider("test-secret", 2*time.Hour)

	_, err := p.Verify("not-a-jwt")
	assert.Error(t, err)
}
