package tenancy

import (
	"fmt"
	"strings"
)

// OwnerKind discrimina la FK polimórfica herds.owner_type.
type OwnerKind string

const (
	OwnerKindUser         OwnerKind = "USER"
	OwnerKindOrganization OwnerKind = "ORGANIZATION"
)

// Owner es el dueño de un rebaño: un usuario o una organización.
// En storage son dos columnas (owner_type, owner_id); en dominio siempre se
// construye con OwnedByUser / OwnedByOrganization o ParseOwner.
type Owner struct {
	kind OwnerKind
	id   string
}

func OwnedByUser(userID string) Owner {
	return Owner{kind: OwnerKindUser, id: strings.TrimSpace(userID)}
}

func OwnedByOrganization(orgID string) Owner {
	return Owner{kind: OwnerKindOrganization, id: strings.TrimSpace(orgID)}
}

// ParseOwner valida owner_type/owner_id tal como llegan del request o de la DB.
func ParseOwner(kind, id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, fmt.Errorf("%w: owner_id required", ErrInvalidInput)
	}
	switch OwnerKind(strings.ToUpper(strings.TrimSpace(kind))) {
	case OwnerKindUser:
		return OwnedByUser(id), nil
	case OwnerKindOrganization:
		return OwnedByOrganization(id), nil
	default:
		return Owner{}, fmt.Errorf("%w: invalid owner_type %q", ErrInvalidInput, kind)
	}
}

func (o Owner) Kind() OwnerKind { return o.kind }
func (o Owner) ID() string      { return o.id }

func (o Owner) IsZero() bool { return o.kind == "" }

// Match despacha sobre la variante. Ambas ramas son obligatorias.
func (o Owner) Match(user func(userID string) error, org func(orgID string) error) error {
	switch o.kind {
	case OwnerKindUser:
		return user(o.id)
	case OwnerKindOrganization:
		return org(o.id)
	default:
		return fmt.Errorf("%w: owner not set", ErrInvalidInput)
	}
}

func (o Owner) String() string {
	return string(o.kind) + ":" + o.id
}
