package service

import (
	"context"
	"errors"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/damoang/caption-queue/internal/repository"
	"github.com/damoang/caption-queue/internal/session"
	"github.com/damoang/caption-queue/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authentication business logic
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	Logout(ctx context.Context, token string) error
}

// LoginResult is the session cookie payload for a successful login
type LoginResult struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

type authService struct {
	users      repository.UserRepository
	sessions   session.Store
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, sessions session.Store, jwtManager *jwt.Manager) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		jwtManager: jwtManager,
	}
}

// Login checks the password and opens a server-side session
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	rec, err := s.sessions.Create(ctx, user.Username, s.jwtManager.TTL())
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateSessionToken(user.Username, rec.ID)
	if err != nil {
		_ = s.sessions.Destroy(ctx, rec.ID)
		return nil, err
	}

	return &LoginResult{Username: user.Username, Token: token, ExpiresAt: rec.ExpiresAt}, nil
}

// Authenticate resolves a session token to a principal. A token whose session
// was revoked by logout is rejected even before it expires.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	claims, err := s.jwtManager.VerifySessionToken(token)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	rec, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	if rec.Username != claims.Username {
		return nil, common.ErrUnauthorized
	}

	return &domain.Principal{Username: rec.Username, SessionID: rec.ID}, nil
}

// Logout revokes the session behind the token. Invalid tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtManager.VerifySessionToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Destroy(ctx, claims.SessionID)
}
