package clients

// ProvisionInput son los datos del alta de un cliente.
type ProvisionInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	HasCompany    bool
	OrgName       string
	OrgStreet     string
	OrgCity       string
	OrgPostalCode string
	OrgTaxID      string

	// HerdID vacío (o solo espacios) => no se crea rebaño.
	HerdID string
}

// Result lleva la credencial en texto plano: es el único punto del sistema
// donde se puede observar. No se loguea ni se persiste.
type Result struct {
	UserID         string
	OrganizationID *string
	HerdID         *string
	RawPassword    string
}
