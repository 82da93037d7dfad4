// Package config loads the static OAuth credentials from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	meetup "github.com/meetup-tools/attendee-sync"
)

// Env var names for the five required settings.
const (
	EnvClientKey      = "MEETUP_COM_CLIENT_KEY"
	EnvClientSecret   = "MEETUP_COM_SECRET"
	EnvSigningKeyID   = "MEETUP_COM_SIGNING_KEY_ID"
	EnvMemberID       = "MEETUP_COM_AUTHORIZED_MEMBER_ID"
	EnvPrivateKeyPath = "MEETUP_COM_PRIVATE_KEY_PATH"
)

// Config holds the static credentials, loaded once at startup and immutable
// for the process lifetime.
type Config struct {
	ClientKey          string
	ClientSecret       string
	SigningKeyID       string
	AuthorizedMemberID string
	PrivateKeyPath     string
}

// Load reads the five required settings from the environment, after loading
// a .env file if one exists. Any missing setting is a ConfigurationError
// naming every absent variable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClientKey:          os.Getenv(EnvClientKey),
		ClientSecret:       os.Getenv(EnvClientSecret),
		SigningKeyID:       os.Getenv(EnvSigningKeyID),
		AuthorizedMemberID: os.Getenv(EnvMemberID),
		PrivateKeyPath:     os.Getenv(EnvPrivateKeyPath),
	}

	var missing []string
	for name, val := range map[string]string{
		EnvClientKey:      cfg.ClientKey,
		EnvClientSecret:   cfg.ClientSecret,
		EnvSigningKeyID:   cfg.SigningKeyID,
		EnvMemberID:       cfg.AuthorizedMemberID,
		EnvPrivateKeyPath: cfg.PrivateKeyPath,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &meetup.ConfigurationError{
			Reason: fmt.Sprintf("missing required settings: %s", strings.Join(missing, ", ")),
		}
	}

	return cfg, nil
}

// String renders the config with credential-bearing values masked, so the
// effective settings can be logged at startup without leaking secrets.
func (c *Config) String() string {
	fields := []struct {
		name  string
		value string
	}{
		{"ClientKey", c.ClientKey},
		{"ClientSecret", c.ClientSecret},
		{"SigningKeyID", c.SigningKeyID},
		{"AuthorizedMemberID", c.AuthorizedMemberID},
		{"PrivateKeyPath", c.PrivateKeyPath},
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v := f.value
		if isSensitive(f.name) {
			v = "****"
		}
		parts = append(parts, fmt.Sprintf("%s=%q", f.name, v))
	}

	return "Config(" + strings.Join(parts, ", ") + ")"
}

func isSensitive(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range []string{"KEY", "SECRET", "TOKEN", "PASSWORD"} {
		if strings.Contains(upper, kw) {
			return true
		}
	}

	return false
}
