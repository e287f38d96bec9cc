package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"amicus-backend/internal/ports/auth"
)

var (
	ErrTokenEmpty       = errors.New("token is empty")
	ErrClaimsIncomplete = errors.New("odin claims missing user id")
)

// tokenVerifier lo cumple *Client.
type tokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (auth.Claims, error)
}

// Verifier implementa auth.AuthVerifier usando Odin.
type Verifier struct {
	client tokenVerifier
}

func NewVerifier(client *Client) *Verifier {
	if client == nil {
		return &Verifier{}
	}
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("odin verify failed: %w", err)
	}

	// Sin user id no hay identidad: no se deja pasar al middleware.
	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, ErrClaimsIncomplete
	}
	return claims, nil
}
