package organizations

import (
	"time"

	"amicus-backend/internal/domain/tenancy"
)

// Organization es una granja/empresa/clínica. Solo soft-delete (Status=Inactive).
type Organization struct {
	ID string

	Name        string
	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	TaxID       string

	Status tenancy.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
