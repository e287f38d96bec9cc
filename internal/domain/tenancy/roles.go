package tenancy

import (
	"fmt"
	"strings"
)

// Role es el rol de un usuario (columna users.role) o de una membresía
// (organization_user.role). Las membresías solo admiten OWNER, EMPLOYEE y FARMER.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleEmployee Role = "EMPLOYEE"
	RoleFarmer   Role = "FARMER"
	RoleVet      Role = "VET"
)

// ParseRole normaliza (trim + upper) y valida un rol de usuario.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleOwner, RoleEmployee, RoleFarmer, RoleVet:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// ParseMembershipRole igual que ParseRole pero solo para roles de membresía.
func ParseMembershipRole(s string) (Role, error) {
	r, err := ParseRole(s)
	if err != nil {
		return "", err
	}
	if !r.IsMembershipRole() {
		return "", fmt.Errorf("%w: role %q is not a membership role", ErrInvalidInput, s)
	}
	return r, nil
}

func (r Role) IsMembershipRole() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleFarmer:
		return true
	default:
		return false
	}
}

// Status es el flag de soft-delete de usuarios y organizaciones.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)
