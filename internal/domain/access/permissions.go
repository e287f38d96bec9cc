package access

import (
	"context"
	"fmt"

	"amicus-backend/internal/domain/memberships"
	"amicus-backend/internal/domain/tenancy"
)

// EditScope indica qué campos de un usuario puede modificar el requester.
type EditScope int

const (
	EditNone EditScope = iota
	// EditProfile: todos los campos excepto role.
	EditProfile
	// EditFull: incluye role.
	EditFull
)

func (s EditScope) CanChangeRole() bool { return s == EditFull }

func (s EditScope) String() string {
	switch s {
	case EditProfile:
		return "profile"
	case EditFull:
		return "full"
	default:
		return "none"
	}
}

// Evaluator es el Permission Evaluator (jerarquía OWNER > EMPLOYEE > FARMER).
type Evaluator struct {
	dir Directory
}

func NewEvaluator(dir Directory) *Evaluator {
	return &Evaluator{dir: dir}
}

// EvaluateEdit decide si requesterID puede editar al usuario target y con qué alcance.
//
//	self                          -> EditProfile (nunca el propio rol)
//	OWNER en org compartida       -> EditFull
//	EMPLOYEE en org compartida    -> EditProfile solo si target.role = FARMER
//	resto                         -> tenancy.ErrForbidden
//
// La existencia del target la valida el caller antes (404 vs 403).
func (e *Evaluator) EvaluateEdit(ctx context.Context, requesterID, targetID string, targetRole tenancy.Role) (EditScope, error) {
	if requesterID == targetID {
		return EditProfile, nil
	}

	mine, theirs, err := e.load(ctx, requesterID, targetID)
	if err != nil {
		return EditNone, err
	}
	ownerShared, employeeShared := sharedByRole(mine, theirs)

	switch {
	case len(ownerShared) > 0:
		return EditFull, nil
	case len(employeeShared) > 0:
		// El target tiene que ser FARMER como usuario y no puede tener un rol
		// superior en ninguna de las organizaciones compartidas.
		if targetRole != tenancy.RoleFarmer || privilegedIn(theirs, employeeShared) {
			return EditNone, fmt.Errorf("%w: EMPLOYEE can only edit FARMER users", tenancy.ErrForbidden)
		}
		return EditProfile, nil
	default:
		return EditNone, fmt.Errorf("%w: not in the same organization or no permission", tenancy.ErrForbidden)
	}
}

// EvaluateDelete: uno mismo, o OWNER en una organización compartida.
// Un EMPLOYEE nunca puede borrar a otro usuario, ni siquiera a un FARMER.
func (e *Evaluator) EvaluateDelete(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return nil
	}
	mine, theirs, err := e.load(ctx, requesterID, targetID)
	if err != nil {
		return err
	}
	ownerShared, _ := sharedByRole(mine, theirs)
	if len(ownerShared) == 0 {
		return fmt.Errorf("%w: not authorized to delete this user", tenancy.ErrForbidden)
	}
	return nil
}

func (e *Evaluator) load(ctx context.Context, requesterID, targetID string) (mine, theirs []memberships.Membership, err error) {
	mine, err = e.dir.MembershipsOf(ctx, requesterID)
	if err != nil {
		return nil, nil, err
	}
	theirs, err = e.dir.MembershipsOf(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return mine, theirs, nil
}

// sharedByRole calcula targetOrgs(T) ∩ ownerOrgs(U) y targetOrgs(T) ∩ employeeOrgs(U).
func sharedByRole(mine, theirs []memberships.Membership) (owner, employee []string) {
	targetOrgs := memberships.OrganizationIDs(theirs)
	if len(targetOrgs) == 0 {
		return nil, nil
	}
	owner = intersect(targetOrgs, memberships.OrganizationIDsWithRole(mine, tenancy.RoleOwner))
	employee = intersect(targetOrgs, memberships.OrganizationIDsWithRole(mine, tenancy.RoleEmployee))
	return owner, employee
}

func privilegedIn(items []memberships.Membership, orgIDs []string) bool {
	for _, orgID := range orgIDs {
		if role, ok := memberships.RoleIn(items, orgID); ok && role != tenancy.RoleFarmer {
			return true
		}
	}
	return false
}
