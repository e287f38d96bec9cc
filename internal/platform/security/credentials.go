package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Sin caracteres ambiguos (0/O, 1/l/I) para que se pueda dictar o tipear.
const credentialAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultCredentialLength = 12
	MinCredentialLength     = 8
)

// GenerateCredential genera una contraseña inicial aleatoria con crypto/rand.
func GenerateCredential(length int) (string, error) {
	if length <= 0 {
		length = DefaultCredentialLength
	}
	if length < MinCredentialLength {
		return "", errors.New("credential length too short")
	}

	max := big.NewInt(int64(len(credentialAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = credentialAlphabet[n.Int64()]
	}
	return string(out), nil
}
