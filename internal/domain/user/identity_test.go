//go:build unit

package user_test

import (
	"testing"

	"parkpass/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		email     string
		role      user.Role
		wantEmail *string
		errIs     error
	}{
		{name: "with email", subject: "uid-1", email: "a@example.com", role: user.RoleViewer, wantEmail: ptr("a@example.com")},
		{name: "without email", subject: "uid-1", role: user.RoleOperator},
		{name: "blank subject", subject: "   ", role: user.RoleViewer, errIs: user.ErrMissingSubject},
		{name: "bad role", subject: "uid-1", role: user.Role("root"), errIs: user.ErrInvalidRole},
		{name: "bad email", subject: "uid-1", email: "not-an-email", role: user.RoleViewer, errIs: user.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := user.NewIdentity(tt.subject, tt.email, tt.role)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.subject, id.Subject())
			assert.Equal(t, tt.role, id.Role())
			assert.Equal(t, tt.wantEmail, id.Email())
		})
	}
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, user.RoleAdmin.AtLeast(user.RoleOperator))
	assert.True(t, user.RoleOperator.AtLeast(user.RoleOperator))
	assert.False(t, user.RoleViewer.AtLeast(user.RoleOperator))
	assert.False(t, user.Role("").AtLeast(user.RoleViewer))
	assert.False(t, user.RoleAdmin.AtLeast(user.Role("ghost")))
}

func ptr(s string) *string { return &s }
