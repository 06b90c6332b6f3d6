// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login and opaque session tokens
// kept in the session store.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/cryptox"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
)

// SessionResolver maps a session token to the id of its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify Basic credentials and open a session
// - Logout: drop a session
// - ResolveSession: look up the user behind a token
type AuthService struct {
	users      users.Repository
	sessions   sessions.Store
	pepper     string
	sessionTTL time.Duration
	logger     logging.Logger
}

// NewAuthService constructs an AuthService. pepper is mixed into every
// password hash; sessionTTL bounds the lifetime of issued tokens.
func NewAuthService(u users.Repository, s sessions.Store, pepper string, sessionTTL time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		users:      u,
		sessions:   s,
		pepper:     pepper,
		sessionTTL: sessionTTL,
		logger:     logger.With("module", "auth"),
	}
}

// Register creates a user. The password is stored hashed.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.NewValidationError("Missing email")
	}
	if password == "" {
		return nil, common.NewValidationError("Missing password")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	user := &models.User{Email: email, Password: cryptox.HashPassword(password, s.pepper)}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks an "Authorization: Basic ..." header value and returns a
// fresh session token.
func (s *AuthService) Login(ctx context.Context, authorization string) (string, error) {
	email, password, ok := parseBasicAuth(authorization)
	if !ok {
		return "", common.ErrorUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}
	if !cryptox.CheckPassword(user.Password, password, s.pepper) {
		return "", common.ErrorUnauthorized
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.sessions.Set(ctx, sessionKey(token), user.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("error storing session: %w", err)
	}

	s.logger.Debug(ctx, "session opened", "user_id", user.ID)
	return token, nil
}

// Logout deletes the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.ResolveSession(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// ResolveSession returns the user id stored for token, or
// common.ErrorUnauthorized when the token is empty, unknown or expired.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	userID, err := s.sessions.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error reading session: %w", err)
	}
	return userID, nil
}

// Me returns the user behind token.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func sessionKey(token string) string {
	return common.SessionKeyPrefix + token
}

// parseBasicAuth splits "Basic base64(email:password)". The password may
// itself contain colons.
func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	email, password, ok = strings.Cut(string(raw), ":")
	if !ok || email == "" {
		return "", "", false
	}
	return email, password, true
}
