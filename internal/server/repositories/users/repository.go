// Package users declares the repository contract for vault accounts and
// their reset-token state.
package users

import (
	"context"
	"time"

	"github.com/yebin817/passvault/internal/server/models"
)

// Repository defines persistence operations for users. Implementations
// return common.ErrorNotFound for absent rows and common.ErrorDuplicate on
// username/email collisions.
type Repository interface {
	// Create inserts a new user and returns it with id and timestamps set.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)

	// SetResetToken stores token and expiry in one statement, replacing any
	// previous token.
	SetResetToken(ctx context.Context, userID string, token string, expiry time.Time) error

	// ConsumeResetToken atomically sets the new password hash and clears the
	// token pair, but only while the token is still live at instant now.
	// Returns the affected user id, or common.ErrInvalidToken when the token
	// is absent, already consumed, or expired.
	ConsumeResetToken(ctx context.Context, token string, passwordHash string, now time.Time) (string, error)

	// UpdatePasswordHash replaces the stored account password hash.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}
