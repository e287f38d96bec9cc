package jwt

import (
	"context"
	"testing"
	"time"

	"amicus-backend/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerifyRoundTrip(t *testing.T) {
	m, err := NewManager(Config{Secret: "s3cret", Issuer: "amicus"})
	require.NoError(t, err)

	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1", Email: "a@b.c", Role: "FARMER"})
	require.NoError(t, err)

	c, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "a@b.c", Role: "FARMER"}, c)
}

func TestManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	m, err := NewManager(Config{Secret: "s3cret", TTL: time.Minute})
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = m.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewManager(Config{Secret: "other"})
	require.NoError(t, err)
	other.now = func() time.Time { return base }
	_, err = other.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Validation(t *testing.T) {
	_, err := NewManager(Config{Secret: "  "})
	assert.ErrorIs(t, err, ErrSecretRequired)

	m, err := NewManager(Config{Secret: "x"})
	require.NoError(t, err)
	_, err = m.Issue(context.Background(), auth.Claims{})
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
