package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"amicus-backend/internal/domain/tenancy"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("x: %w", tenancy.ErrInvalidInput)))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(tenancy.ErrUnauthenticated))
	assert.Equal(t, http.StatusForbidden, StatusFor(tenancy.ErrForbidden))
	assert.Equal(t, http.StatusNotFound, StatusFor(tenancy.ErrNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(tenancy.ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", strings.TrimSpace(rec.Body.String()))
}

func TestWriteHiddenError_CollapsesForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHiddenError(rec, tenancy.ErrForbidden, "herd not found or not authorized")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found or not authorized")

	rec = httptest.NewRecorder()
	WriteHiddenError(rec, tenancy.ErrConflict, "ignored")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad"))
	var v map[string]any
	assert.ErrorIs(t, DecodeJSON(req, &v), tenancy.ErrInvalidInput)
}
