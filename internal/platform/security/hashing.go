package security

import (
	"golang.org/x/crypto/bcrypt"
)

// MinCost sirve para tests; en producción se usa BCRYPT_COST.
const MinCost = bcrypt.MinCost

// Hasher hashea y verifica contraseñas con bcrypt. Nunca loguear ni persistir
// el texto plano.
type Hasher struct {
	Cost int
}

// NewHasher acota cost a [bcrypt.MinCost, bcrypt.MaxCost]; 0 => bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

func (h *Hasher) Hash(password []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(password, h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare devuelve nil si coinciden (comparación en tiempo constante).
func (h *Hasher) Compare(hash string, password []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), password)
}
