package memberships

import (
	"time"

	"amicus-backend/internal/domain/tenancy"
)

// Membership es la relación ternaria (organización, usuario, rol).
// Única por (OrganizationID, UserID): un usuario tiene a lo sumo un rol por organización.
type Membership struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           tenancy.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}
