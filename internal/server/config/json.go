package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/yebin817/passvault/internal/flagx"
	"github.com/yebin817/passvault/internal/timex"
)

// JsonConfig is an intermediate DTO for reading JSON configuration files.
// Duration fields accept both strings such as "1h" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	EncryptionKey               string         `json:"encryption_key"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetTokenValidityDuration  timex.Duration `json:"reset_token_validity_duration"`
	BootstrapUsername           string         `json:"bootstrap_username"`
	BootstrapEmail              string         `json:"bootstrap_email"`
	BootstrapPassword           string         `json:"bootstrap_password"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c/-config flags; when absent no
// file is loaded. Unreadable or invalid files panic, startup must not
// continue on a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.EncryptionKey = c.EncryptionKey
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	config.BootstrapUsername = c.BootstrapUsername
	config.BootstrapEmail = c.BootstrapEmail
	config.BootstrapPassword = c.BootstrapPassword
}
