package auth

// Claims representa la información extraída del token.
// Role es el rol de plataforma del usuario (FARMER, VET, ...), no su rol
// dentro de una organización: ese se resuelve siempre contra el directorio.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
