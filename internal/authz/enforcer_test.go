package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_AllowedRoles(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		object, action string
		want           []string
	}{
		{"users", "list", []string{"admin", "superadmin"}},
		{"users", "delete", []string{"admin", "superadmin"}},
		{"roles", "change", []string{"superadmin"}},
		{"colleges", "create", []string{"superadmin"}},
		{"colleges", "delete", []string{"superadmin"}},
		{"batches", "write", []string{"admin", "superadmin"}},
		{"batches", "read", []string{"admin", "superadmin", "alumni", "student"}},
		{"posts", "create", []string{"alumni"}},
		{"photos", "create", []string{"admin", "superadmin", "alumni"}},
		{"updates", "write", []string{"admin", "superadmin"}},
		{"feedback", "read", []string{"admin", "superadmin"}},
		{"jobs", "create", []string{"admin", "superadmin", "alumni", "student"}},
	}
	for _, tc := range cases {
		t.Run(tc.object+":"+tc.action, func(t *testing.T) {
			assert.Equal(t, tc.want, e.AllowedRoles(tc.object, tc.action))
		})
	}
}

func TestEnforcer_UnknownObjectDenied(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	assert.False(t, e.Can("superadmin", "unknown", "read"))
	assert.Empty(t, e.AllowedRoles("unknown", "read"))
	assert.False(t, e.Can("member", "posts", "create"))
}
