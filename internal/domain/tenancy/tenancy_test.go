package tenancy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" employee ")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, r)

	_, err = ParseRole("ADMIN")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseMembershipRole_RejectsVet(t *testing.T) {
	_, err := ParseMembershipRole("VET")
	assert.ErrorIs(t, err, ErrInvalidInput)

	r, err := ParseMembershipRole("farmer")
	require.NoError(t, err)
	assert.Equal(t, RoleFarmer, r)
}

func TestParseOwner(t *testing.T) {
	o, err := ParseOwner("organization", "org-1")
	require.NoError(t, err)
	assert.Equal(t, OwnerKindOrganization, o.Kind())
	assert.Equal(t, "org-1", o.ID())

	_, err = ParseOwner("FARM", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseOwner("USER", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOwner_Match(t *testing.T) {
	var got string
	err := OwnedByUser("u-1").Match(
		func(userID string) error { got = "user:" + userID; return nil },
		func(orgID string) error { got = "org:" + orgID; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "user:u-1", got)

	err = Owner{}.Match(
		func(string) error { return nil },
		func(string) error { return nil },
	)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
