package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yebin817/passvault/internal/cryptox"
	"github.com/yebin817/passvault/internal/dbx"
	"github.com/yebin817/passvault/internal/server/auth"
	"github.com/yebin817/passvault/internal/server/config"
	entriesrepo "github.com/yebin817/passvault/internal/server/repositories/entries"
	usersrepo "github.com/yebin817/passvault/internal/server/repositories/users"
)

const testKeyMaterial = "0123456789abcdef0123456789abcdef"

// fastArgon keeps hashing cheap in tests.
var fastArgon = auth.ArgonParams{
	Memory:      8 * 1024,
	Time:        1,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

// memRepoManager vends the in-memory repositories regardless of the DBTX
// handle, so services run against fakes while dbx.WithTx still exercises
// the (mocked) transaction boundary.
type memRepoManager struct {
	users   *usersrepo.InMemoryRepository
	entries *entriesrepo.InMemoryRepository
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users:   usersrepo.NewInMemoryRepository(),
		entries: entriesrepo.NewInMemoryRepository(),
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *memRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository   { return m.entries }

// sqlmockCtl wraps the expectations dbx.WithTx needs from the mocked
// connection. The in-memory repositories ignore the handle, so only the
// transaction boundary itself has to be declared.
type sqlmockCtl struct {
	mock sqlmock.Sqlmock
}

func (c sqlmockCtl) expectTxCommit() {
	c.mock.ExpectBegin()
	c.mock.ExpectCommit()
}

func (c sqlmockCtl) expectTxRollback() {
	c.mock.ExpectBegin()
	c.mock.ExpectRollback()
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestConfig() *config.Config {
	return &config.Config{
		EncryptionKey:               testKeyMaterial,
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		ResetTokenValidityDuration:  time.Hour,
	}
}

func newTestCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	c, err := cryptox.New(testKeyMaterial)
	require.NoError(t, err)
	return c
}

func newTestUserService(t *testing.T, db *sql.DB, rm *memRepoManager) *UserService {
	t.Helper()
	s := NewUserService(db, rm, newTestConfig())
	s.argon = fastArgon
	return s
}

func newTestResetService(t *testing.T, db *sql.DB, rm *memRepoManager) *ResetService {
	t.Helper()
	s := NewResetService(db, rm, newTestConfig())
	s.argon = fastArgon
	return s
}

// registerUser creates an account through the service and returns its id.
func registerUser(t *testing.T, s *UserService, username, email string) string {
	t.Helper()
	u, err := s.Register(context.Background(), username, email, "account-password")
	require.NoError(t, err)
	return u.ID
}
