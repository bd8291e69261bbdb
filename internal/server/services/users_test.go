package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yebin817/passvault/internal/common"
	"github.com/yebin817/passvault/internal/server/auth"
)

func setupUsers(t *testing.T) (*UserService, *memRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := newMemRepoManager()
	return newTestUserService(t, db, rm), rm
}

func TestRegister_Validation(t *testing.T) {
	s, _ := setupUsers(t)
	ctx := context.Background()

	var verr *common.ValidationError

	_, err := s.Register(ctx, "", "a@example.com", "pw")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	_, err = s.Register(ctx, "alice", "", "pw")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = s.Register(ctx, "alice", "a@example.com", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestRegister_HashesPassword(t *testing.T) {
	s, rm := setupUsers(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "alice@example.com", "s3cret!")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	stored, err := rm.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "s3cret!")

	ok, err := auth.VerifyPassword("s3cret!", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := setupUsers(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrorDuplicate)

	_, err = s.Register(ctx, "alice2", "alice@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrorDuplicate)
}

func TestLogin(t *testing.T) {
	s, _ := setupUsers(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "s3cret!")
	require.NoError(t, err)

	token, err := s.Login(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// unknown users fail the same way as wrong passwords
	_, err = s.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestEnsureBootstrapUser(t *testing.T) {
	s, rm := setupUsers(t)
	ctx := context.Background()

	// disabled when no username configured
	require.NoError(t, s.EnsureBootstrapUser(ctx, "", "", ""))
	_, err := rm.users.GetByUsername(ctx, "yebin817")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.EnsureBootstrapUser(ctx, "yebin817", "yebin817@gmail.com", "bootstrap-pw"))
	u, err := rm.users.GetByUsername(ctx, "yebin817")
	require.NoError(t, err)
	assert.Equal(t, "yebin817@gmail.com", u.Email)

	// idempotent on restart
	require.NoError(t, s.EnsureBootstrapUser(ctx, "yebin817", "yebin817@gmail.com", "bootstrap-pw"))
}
