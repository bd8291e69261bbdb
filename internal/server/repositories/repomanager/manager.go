package repomanager

import (
	"context"
	"database/sql"

	"github.com/yebin817/passvault/internal/dbx"
	"github.com/yebin817/passvault/internal/server/repositories/entries"
	"github.com/yebin817/passvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructor works for plain connections and for transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}
