package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/server/auth"
	"github.com/yebin817/passvault/internal/server/config"
	"github.com/yebin817/passvault/internal/server/models"
	"github.com/yebin817/passvault/internal/server/repositories/repomanager"
)

// resetTokenBytes is the entropy of a reset token before encoding.
const resetTokenBytes = 32

// ResetService implements the password reset-token lifecycle: issue,
// validate, consume. Tokens are single-use and time-limited; a user has at
// most one live token at a time.
type ResetService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	argon         auth.ArgonParams
	tokenValidity time.Duration

	// now is a seam for expiry tests.
	now func() time.Time
}

// NewResetService constructs a ResetService using repositories and server config.
func NewResetService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ResetService {
	return &ResetService{
		db:            db,
		repos:         m,
		argon:         auth.DefaultArgon,
		tokenValidity: cfg.ResetTokenValidityDuration,
		now:           time.Now,
	}
}

// Issue generates a fresh URL-safe token for the account with the given
// email and persists token and expiry together, replacing any previous
// token. The token is returned so the caller can deliver it out of band.
func (s *ResetService) Issue(ctx context.Context, email string) (string, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := common.MakeRandURLSafeString(resetTokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	expiry := s.now().Add(s.tokenValidity)
	if err := repo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return "", err
	}
	return token, nil
}

// Validate looks up the account holding the token. It is side-effect-free
// and idempotent; the reasons for rejection (unknown, expired, malformed)
// are deliberately collapsed into common.ErrInvalidToken.
func (s *ResetService) Validate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repos.Users(s.db).GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if user.ResetTokenExpiry == nil || !user.ResetTokenExpiry.After(s.now()) {
		return nil, common.ErrInvalidToken
	}
	return user, nil
}

// Consume re-validates the token and, in a single compare-and-set update,
// replaces the account password hash and clears the token pair. A token
// that was already consumed, expired, or never existed leaves no state
// change and is reported as common.ErrInvalidToken.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return common.ErrInvalidToken
	}
	if newPassword == "" {
		return common.NewValidationError("password")
	}

	hash, err := auth.HashPassword(s.argon, newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	_, err = s.repos.Users(s.db).ConsumeResetToken(ctx, token, hash, s.now())
	return err
}
