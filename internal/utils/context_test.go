package utils

import (
	"context"
	"testing"

	"github.com/fixit-helpdesk/fixit/models"
	"github.com/stretchr/testify/assert"
)

func TestGetUserIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDCtxKey, "user-42")

	userID, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-42", userID)
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestGetUserIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDCtxKey, 42)

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
}

func TestGetRoleFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), RoleCtxKey, models.RoleTechL1)

	role, ok := GetRoleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, models.RoleTechL1, role)
}

func TestGetRoleFromContext_Missing(t *testing.T) {
	_, ok := GetRoleFromContext(context.Background())
	assert.False(t, ok)
}
