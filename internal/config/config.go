// Package config carga la configuración desde el entorno (y un .env opcional) con Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AuthModeJWT  = "jwt"
	AuthModeOdin = "odin"
	// AuthModeDev acepta X-Debug-User-ID sin verificar nada. Solo local.
	AuthModeDev = "dev"
)

type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DBDSN vacío => storage in-memory.
	DBDSN          string `mapstructure:"DB_DSN"`
	MigrateOnStart bool   `mapstructure:"MIGRATE_ON_START"`

	AuthMode  string `mapstructure:"AUTH_MODE"`
	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	JWTTTL    string `mapstructure:"JWT_TTL"`

	OdinBaseURL string `mapstructure:"ODIN_BASE_URL"`
	OdinAPIKey  string `mapstructure:"ODIN_API_KEY"`

	BcryptCost       int `mapstructure:"BCRYPT_COST"`
	CredentialLength int `mapstructure:"CREDENTIAL_LENGTH"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	AppName   string `mapstructure:"APP_NAME"`
}

// Load lee .env (si existe) y el entorno; el entorno pisa al .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // sin .env está bien (CI, contenedores)

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("AUTH_MODE", AuthModeJWT)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "amicus-backend")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("ODIN_BASE_URL", "")
	v.SetDefault("ODIN_API_KEY", "")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CREDENTIAL_LENGTH", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "amicus-backend")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	switch c.AuthMode {
	case AuthModeJWT, AuthModeOdin, AuthModeDev:
	default:
		return fmt.Errorf("config: AUTH_MODE must be jwt, odin or dev, got %q", c.AuthMode)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.CredentialLength < 8 || c.CredentialLength > 64 {
		return errors.New("config: CREDENTIAL_LENGTH must be between 8 and 64")
	}
	return nil
}

// ValidateAuth exige las claves del modo de auth elegido. La llama cmd/api;
// cmd/migrate no la necesita.
func (c *Config) ValidateAuth() error {
	switch c.AuthMode {
	case AuthModeJWT:
		if strings.TrimSpace(c.JWTSecret) == "" {
			return errors.New("config: JWT_SECRET must be set when AUTH_MODE=jwt")
		}
	case AuthModeOdin:
		if strings.TrimSpace(c.OdinBaseURL) == "" || strings.TrimSpace(c.OdinAPIKey) == "" {
			return errors.New("config: ODIN_BASE_URL and ODIN_API_KEY must be set when AUTH_MODE=odin")
		}
	}
	return nil
}

// TokenTTL parsea JWT_TTL; 1h si falta o es inválido.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}
