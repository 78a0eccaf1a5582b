package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateSessionToken("admin", "sid-1")
	require.NoError(t, err)

	claims, err := m.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateSessionToken("admin", "sid-1")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateSessionToken("admin", "sid-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).VerifySessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
