package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/credon/authserver/internal/auth"
	"github.com/credon/authserver/internal/events"
	"github.com/credon/authserver/internal/store"
	"github.com/credon/authserver/types"
)

const resetTokenTTL = 10 * time.Minute

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByValidResetToken(ctx context.Context, token string, now time.Time) (types.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (types.User, error)
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// AuthService orchestrates signup, login, password reset, and current-user
// lookup.
type AuthService struct {
	repo      UserRepository
	hasher    *auth.Hasher
	codec     *auth.TokenCodec
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewAuthService(repo UserRepository, hasher *auth.Hasher, codec *auth.TokenCodec, publisher *events.Publisher, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		publisher: publisher,
		logger:    logger,
	}
}

// Signup registers a new user and returns it alongside a session token.
// The new user gets role USER and an unverified email.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (types.User, string, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, "", ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return types.User{}, "", err
	}

	user, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		// The pre-check races with concurrent signups; the unique index
		// is the authority.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return types.User{}, "", ErrDuplicateEmail
		}
		return types.User{}, "", err
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return types.User{}, "", err
	}

	s.publish(ctx, events.UserSignedUp, user)
	return user, token, nil
}

// Login verifies credentials and returns the user alongside a session token.
// An unknown email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// RequestPasswordReset issues a reset token valid for ten minutes and
// returns it to the caller. Delivery to the user is out of scope.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}

	s.publish(ctx, events.PasswordResetRequested, user)
	return token, nil
}

// ResetPassword consumes a reset token and replaces the user's password.
// The token is cleared on success and cannot be used again. No session
// token is issued; the user must log in with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetByValidResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.PasswordResetCompleted, user)
	return nil
}

// GetCurrentUser loads a user by id.
func (s *AuthService) GetCurrentUser(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUserNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// publish emits an auth event best-effort. Broker failures are logged and
// never surfaced to the caller.
func (s *AuthService) publish(ctx context.Context, name string, user types.User) {
	event := events.Event{
		Name:       name,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish auth event", "event", name, "error", err)
	}
}
