// AngelaMos | 2026
// role_test.go

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RoleUser},
		{in: "organizer", want: RoleOrganizer},
		{in: " Admin ", want: RoleAdmin},
		{in: "superuser", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Capabilities(t *testing.T) {
	assert.False(t, RoleUser.CanManageProjects())
	assert.True(t, RoleOrganizer.CanManageProjects())
	assert.True(t, RoleAdmin.CanManageProjects())
	assert.False(t, Role("ghost").CanManageProjects())

	assert.True(t, RoleUser.CountsAsVolunteer())
	assert.True(t, RoleOrganizer.CountsAsVolunteer())
	assert.False(t, RoleAdmin.CountsAsVolunteer())
}

func TestRoles_ReturnsCopy(t *testing.T) {
	r := Roles()
	r[0] = "mutated"
	assert.Equal(t, RoleUser, Roles()[0])
}
