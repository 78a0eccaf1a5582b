package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims is the payload of the session cookie.
// SessionID points at the server-side session record so logout can revoke it.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	SessionID string `json:"sid"`
}

// Manager signs and verifies session tokens with a shared HMAC secret
type Manager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewManager creates a new Manager
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateSessionToken issues a signed token for the given user and session
func (m *Manager) GenerateSessionToken(username, sessionID string) (string, error) {
	now := m.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        sessionID,
		},
		Username:  username,
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifySessionToken parses and validates a session token
//
//nolint:dupl // JWT 검증 로직은 표준 패턴을 따르므로 유사함
func (m *Manager) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		if claims.SessionID == "" || claims.Username == "" {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
