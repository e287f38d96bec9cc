package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, AuthModeJWT, cfg.AuthMode)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 12, cfg.CredentialLength)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Empty(t, cfg.DBDSN)

	assert.Error(t, cfg.ValidateAuth(), "jwt mode needs a secret")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("AUTH_MODE", " DEV ")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, AuthModeDev, cfg.AuthMode)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.True(t, cfg.MigrateOnStart)
	assert.NoError(t, cfg.ValidateAuth())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"auth mode":         {"AUTH_MODE": "saml"},
		"bcrypt cost":       {"BCRYPT_COST": "40"},
		"credential length": {"CREDENTIAL_LENGTH": "4"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateAuth_Odin(t *testing.T) {
	cfg := &Config{AuthMode: AuthModeOdin, OdinBaseURL: "https://odin.local"}
	assert.Error(t, cfg.ValidateAuth())

	cfg.OdinAPIKey = "k"
	assert.NoError(t, cfg.ValidateAuth())
}
