// Package entries declares the repository contract for credential entries.
// Every operation that addresses a single entry also takes the owner's user
// id; rows owned by anyone else are reported as absent.
package entries

import (
	"context"

	"github.com/yebin817/passvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new entry and returns it with id and timestamps set.
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)

	// GetForUser returns the entry with the given id if it belongs to
	// userID, common.ErrorNotFound otherwise.
	GetForUser(ctx context.Context, id, userID string) (*models.Entry, error)

	// Search returns the owner's entries matching query (case-insensitive
	// substring over service name, username, email, notes). An empty query
	// matches everything. The order is deterministic: created_at ascending
	// with id as tiebreaker.
	Search(ctx context.Context, userID, query string) ([]*models.Entry, error)

	// Update overwrites the mutable fields of the entry addressed by
	// entry.ID and entry.UserID and refreshes updated_at.
	Update(ctx context.Context, entry *models.Entry) error

	// Delete permanently removes the entry if owned by userID.
	Delete(ctx context.Context, id, userID string) error
}
