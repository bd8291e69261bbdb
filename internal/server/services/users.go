// Package services contains the server-side business logic: account
// registration and login, the encrypted credential store, and the password
// reset-token lifecycle. Services are stateless; all durable state lives in
// the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/server/auth"
	"github.com/yebin817/passvault/internal/server/config"
	"github.com/yebin817/passvault/internal/server/models"
	"github.com/yebin817/passvault/internal/server/repositories/repomanager"
)

// UserService handles registration, login and account bootstrap.
type UserService struct {
	db                          *sql.DB
	repos                       repomanager.RepositoryManager
	argon                       auth.ArgonParams
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repos:                       m,
		argon:                       auth.DefaultArgon,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account with a hashed password. Username, email and
// password are required; collisions yield common.ErrorDuplicate.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	switch {
	case username == "":
		return nil, common.NewValidationError("username")
	case email == "":
		return nil, common.NewValidationError("email")
	case password == "":
		return nil, common.NewValidationError("password")
	}

	hash, err := auth.HashPassword(s.argon, password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login verifies the account credentials and mints an access token. Unknown
// usernames and wrong passwords are both reported as ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// EnsureBootstrapUser creates the configured default account when it does
// not exist yet. A blank bootstrap username disables the feature.
func (s *UserService) EnsureBootstrapUser(ctx context.Context, username, email, password string) error {
	if username == "" {
		return nil
	}

	_, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = s.Register(ctx, username, email, password)
	return err
}
