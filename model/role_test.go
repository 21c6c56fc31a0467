package model

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleAuthorized, true},
		{RoleAdmin, RoleUnauthorized, true},
		{RoleAuthorized, RoleAdmin, false},
		{RoleAuthorized, RoleAuthorized, true},
		{RoleUnauthorized, RoleAuthorized, false},
		{RoleUnauthorized, RoleUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s requires %s", tt.role, tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Satisfies(tt.required))
		})
	}
}

func TestStorageError(t *testing.T) {
	err := fmt.Errorf("handler: %w", &StorageError{Op: "list links", Err: context.DeadlineExceeded})

	assert.True(t, IsStorageError(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.EqualError(t, err, "handler: list links: context deadline exceeded")

	assert.False(t, IsStorageError(errors.New("plain")))
}
