package tenancy

import "errors"

// Taxonomía de errores compartida por todos los módulos. Los services envuelven
// estos sentinels con contexto (fmt.Errorf("...: %w")) y los handlers los
// traducen a status HTTP con errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
