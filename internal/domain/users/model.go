package users

import (
	"time"

	"amicus-backend/internal/domain/tenancy"
)

// User es la identidad de la plataforma. Nunca se borra físicamente:
// el borrado pone Status=Inactive.
type User struct {
	ID string

	FirstName string
	LastName  string
	Email     string // opcional para clientes creados por provisioning
	Phone     string

	Role   tenancy.Role
	Status tenancy.Status

	// PasswordHash nunca sale en respuestas HTTP.
	PasswordHash string

	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	TaxID       string
	FarmNumber  string
	VetID       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
