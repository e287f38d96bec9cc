// Package httpx junta los helpers de respuesta que antes estaban duplicados
// en cada handler (writeJSON) ahora que los usan todos los módulos.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"amicus-backend/internal/domain/tenancy"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor traduce la taxonomía de tenancy a status HTTP.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tenancy.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, tenancy.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, tenancy.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, tenancy.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tenancy.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe el error con su status. Los 5xx no exponen detalle.
func WriteError(w http.ResponseWriter, err error) {
	st := StatusFor(err)
	if st >= http.StatusInternalServerError {
		http.Error(w, "internal error", st)
		return
	}
	http.Error(w, err.Error(), st)
}

// WriteHiddenError colapsa forbidden y not found en un único 404 con msg,
// para no revelar si la entidad existe. El resto se escribe como WriteError.
func WriteHiddenError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, tenancy.ErrForbidden) || errors.Is(err, tenancy.ErrNotFound) {
		http.Error(w, msg, http.StatusNotFound)
		return
	}
	WriteError(w, err)
}

// DecodeJSON decodifica el body (máx 1MB). Errores => tenancy.ErrInvalidInput.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json", tenancy.ErrInvalidInput)
	}
	return nil
}
