// Package service contains the business logic layer. Handlers parse HTTP
// and delegate here; services validate, enforce the rules, and call the
// repository interfaces. No HTTP types cross this boundary, and the caller
// identity arrives as an explicit userID parameter rather than any
// request-global state.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/book-catalog/internal/apperror"
	"github.com/sakif/book-catalog/internal/auth"
	"github.com/sakif/book-catalog/internal/model"
	"github.com/sakif/book-catalog/internal/repository"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

// credentialsMessage is the one message used for every login failure.
// Unknown username and wrong password must be indistinguishable, otherwise
// the endpoint doubles as a username oracle.
const credentialsMessage = "invalid username or password"

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a user with a bcrypt-hashed password and returns a fresh
// token pair. A taken username surfaces as apperror.ErrConflict — the
// UNIQUE constraint in the store decides, not a lookup here, so concurrent
// registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing tokens for user %s: %w", user.ID, err)
	}

	return pair, nil
}

// Login verifies the credentials and returns a token pair. Every failure
// path — unknown username, wrong password — returns the same Unauthorized
// error with the same message.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(credentialsMessage)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(credentialsMessage)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing tokens for user %s: %w", user.ID, err)
	}

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// must still exist — tokens issued before an account disappeared die here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Validate(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperror.Unauthorized("invalid or expired refresh token")
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("invalid or expired refresh token")
		}
		return "", fmt.Errorf("service/auth: looking up user %s: %w", userID, err)
	}

	access, err := s.tokens.GenerateAccess(userID)
	if err != nil {
		return "", fmt.Errorf("service/auth: refreshing access token for user %s: %w", userID, err)
	}

	return access, nil
}
