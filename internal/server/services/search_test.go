package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addEntry(t *testing.T, s *VaultService, owner string, params AddEntryParams) string {
	t.Helper()
	id, err := s.Add(context.Background(), owner, params)
	require.NoError(t, err)
	return id
}

func serviceNames(views []EntryView) []string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.ServiceName
	}
	return names
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	s, _, _ := setupVault(t)
	ctx := context.Background()

	addEntry(t, s, "alice", AddEntryParams{ServiceName: "GitHub", Password: "x"})
	addEntry(t, s, "alice", AddEntryParams{ServiceName: "GitLab", Password: "x"})
	addEntry(t, s, "bob", AddEntryParams{ServiceName: "Bitbucket", Password: "x"})

	views, err := s.Search(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub", "GitLab"}, serviceNames(views))
}

func TestSearch_SubstringScenario(t *testing.T) {
	s, _, _ := setupVault(t)
	ctx := context.Background()

	addEntry(t, s, "alice", AddEntryParams{ServiceName: "GitHub", Password: "x"})
	addEntry(t, s, "alice", AddEntryParams{ServiceName: "GitLab", Password: "x"})

	views, err := s.Search(ctx, "alice", "git")
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub", "GitLab"}, serviceNames(views))

	views, err = s.Search(ctx, "alice", "hub")
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub"}, serviceNames(views))
}

func TestSearch_MatchesAllTextFields(t *testing.T) {
	s, _, _ := setupVault(t)
	ctx := context.Background()

	addEntry(t, s, "alice", AddEntryParams{ServiceName: "Mail", Username: "alice-smtp", Password: "x"})
	addEntry(t, s, "alice", AddEntryParams{ServiceName: "Bank", Email: "alice@bank.example", Password: "x"})
	addEntry(t, s, "alice", AddEntryParams{ServiceName: "VPN", Notes: "shared with TEAM", Password: "x"})

	cases := []struct {
		query string
		want  []string
	}{
		{"smtp", []string{"Mail"}},
		{"bank.example", []string{"Bank"}},
		{"team", []string{"VPN"}}, // case-insensitive against notes
		{"alice", []string{"Mail", "Bank"}},
		{"no-such-text", nil},
	}

	for _, tc := range cases {
		views, err := s.Search(ctx, "alice", tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.want, sliceOrNil(serviceNames(views)), "query %q", tc.query)
	}
}

func sliceOrNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestSearch_ExcludesPasswordsFromResults(t *testing.T) {
	s, _, _ := setupVault(t)
	ctx := context.Background()

	addEntry(t, s, "alice", AddEntryParams{ServiceName: "GitHub", Password: "s3cret!"})

	views, err := s.Search(ctx, "alice", "")
	require.NoError(t, err)
	require.Len(t, views, 1)

	// EntryView has no password field at all; spot-check the visible ones
	assert.Equal(t, "GitHub", views[0].ServiceName)
	assert.NotZero(t, views[0].CreatedAt)
}

func TestSearch_DeterministicOrder(t *testing.T) {
	s, _, _ := setupVault(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		addEntry(t, s, "alice", AddEntryParams{ServiceName: name, Password: "x"})
	}

	first, err := s.Search(ctx, "alice", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := s.Search(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, serviceNames(first), serviceNames(again))
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Delta"}, serviceNames(first))
}
