package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meetup "github.com/meetup-tools/attendee-sync"
)

func setAllEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvClientKey, "ck")
	t.Setenv(EnvClientSecret, "cs")
	t.Setenv(EnvSigningKeyID, "kid")
	t.Setenv(EnvMemberID, "12345678")
	t.Setenv(EnvPrivateKeyPath, "/keys/private.pem")
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	setAllEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal("ck", cfg.ClientKey)
	assert.Equal("cs", cfg.ClientSecret)
	assert.Equal("kid", cfg.SigningKeyID)
	assert.Equal("12345678", cfg.AuthorizedMemberID)
	assert.Equal("/keys/private.pem", cfg.PrivateKeyPath)
}

func TestLoadMissingSettings(t *testing.T) {
	setAllEnv(t)
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvSigningKeyID, "")

	_, err := Load()

	var cfgErr *meetup.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	assert.Contains(t, err.Error(), EnvClientSecret)
	assert.Contains(t, err.Error(), EnvSigningKeyID)
	assert.NotContains(t, err.Error(), EnvMemberID)
}

func TestStringMasksSecrets(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{
		ClientKey:          "super-secret-key",
		ClientSecret:       "super-secret",
		SigningKeyID:       "kid-1",
		AuthorizedMemberID: "12345678",
		PrivateKeyPath:     "/keys/private.pem",
	}

	s := cfg.String()

	assert.NotContains(s, "super-secret-key")
	assert.NotContains(s, "super-secret")
	assert.NotContains(s, "kid-1")
	assert.Contains(s, "12345678")
	assert.Contains(s, "****")
}
