// Package jwt emite y verifica tokens HS256 para el login local.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amicus-backend/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrInvalidToken   = errors.New("invalid token")
)

const DefaultTTL = time.Hour

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	gojwt.RegisteredClaims
}

// Manager implementa auth.AuthVerifier y auth.TokenIssuer con una única
// clave simétrica.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) Issue(_ context.Context, c auth.Claims) (string, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	now := m.now()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    m.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(m.issuer))
	}

	var out claims
	_, err := gojwt.ParseWithClaims(token, &out, func(*gojwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(out.UserID) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return auth.Claims{UserID: out.UserID, Email: out.Email, Role: out.Role}, nil
}
