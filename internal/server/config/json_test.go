package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":                  "www.example:9000",
		"database_dsn":                   "postgres://u:p@db:5432/vault",
		"encryption_key":                 "0123456789abcdef0123456789abcdef",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "5m",
		"reset_token_validity_duration":  "2h",
		"bootstrap_username":             "yebin817",
		"bootstrap_email":                "yebin817@gmail.com",
		"bootstrap_password":             "bootstrap-pass",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	parseJson(cfg)

	assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
	assert.Equal(t, "postgres://u:p@db:5432/vault", cfg.DatabaseDSN)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.EncryptionKey)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 2*time.Hour, cfg.ResetTokenValidityDuration)
	assert.Equal(t, "yebin817", cfg.BootstrapUsername)
	assert.Equal(t, "yebin817@gmail.com", cfg.BootstrapEmail)
	assert.Equal(t, "bootstrap-pass", cfg.BootstrapPassword)
}

func Test_parseJson_NoFlagLeavesConfigUntouched(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg

	parseJson(cfg)
	assert.Equal(t, before, *cfg)
}

func Test_parseJson_InvalidFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	os.Args = []string{"testbin", "-c", path}

	assert.Panics(t, func() { parseJson(&Config{}) })
}
