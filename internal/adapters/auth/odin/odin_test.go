package odin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"amicus-backend/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOdin(t *testing.T, h http.HandlerFunc) *Verifier {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	require.NoError(t, err)
	return NewVerifier(c)
}

func TestVerifier_OK(t *testing.T) {
	v := newOdin(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verifyPath, r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": "u-1", "email": "x@y.z", "role": "vet"})
	})

	c, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "x@y.z", Role: "VET"}, c)
}

func TestVerifier_Unauthorized(t *testing.T) {
	v := newOdin(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOdinUnauthorized)
}

func TestVerifier_UpstreamErrors(t *testing.T) {
	v := newOdin(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "x@y.z"})
	})
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOdinUpstream)

	v = newOdin(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOdinUpstream)
}

func TestVerifier_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	_, err = NewVerifier(c).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOdinNotConfigured)

	_, err = NewVerifier(c).Verify(context.Background(), " ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

type stubVerifier struct {
	claims auth.Claims
}

func (s stubVerifier) VerifyToken(context.Context, string) (auth.Claims, error) {
	return s.claims, nil
}

func TestVerifier_RejectsClaimsWithoutUserID(t *testing.T) {
	v := &Verifier{client: stubVerifier{claims: auth.Claims{UserID: "  ", Role: "VET"}}}
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrClaimsIncomplete)

	v = &Verifier{client: stubVerifier{claims: auth.Claims{UserID: " u-1 "}}}
	c, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
}

func TestNewVerifier_NilClient(t *testing.T) {
	_, err := NewVerifier(nil).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOdinNotConfigured)
}
