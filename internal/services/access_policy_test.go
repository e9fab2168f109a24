package services

import (
	"testing"

	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicy_RoleCapabilities(t *testing.T) {
	policy := NewAccessPolicy()

	tests := []struct {
		role       models.Role
		permission string
		allowed    bool
	}{
		{models.RoleStudent, PermOrderCreate, true},
		{models.RoleStaff, PermOrderCreate, true},
		{models.RoleAdmin, PermOrderCreate, false},
		{models.RoleKitchen, PermOrderCreate, false},
		{models.RoleKitchen, PermOrderQueue, true},
		{models.RoleAdmin, PermOrderQueue, false},
		{models.RoleStudent, PermOrderQueue, false},
		{models.RoleKitchen, PermOrderHistory, true},
		{models.RoleAdmin, PermOrderHistory, true},
		{models.RoleStaff, PermOrderHistory, false},
		{models.RoleAdmin, PermOrderTransition, true},
		{models.RoleKitchen, PermOrderTransition, true},
		{models.RoleStudent, PermOrderTransition, false},
		{models.RoleAdmin, PermOrderAdmin, true},
		{models.RoleKitchen, PermOrderAdmin, false},
		{models.RoleAdmin, PermMenuWrite, true},
		{models.RoleStaff, PermMenuWrite, false},
		{models.RoleAdmin, PermMenuReadAll, true},
		{models.RoleStudent, PermMenuReadAll, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.permission, func(t *testing.T) {
			caller := &models.Caller{UserID: uuid.New(), Role: tt.role}
			assert.Equal(t, tt.allowed, policy.HasPermission(caller, tt.permission))

			err := policy.Authorize(caller, tt.permission)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				var authErr *errs.AuthorizationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, errs.CodeUnauthorized, authErr.Code)
			}
		})
	}
}

func TestAccessPolicy_NilCallerIsUnauthenticated(t *testing.T) {
	policy := NewAccessPolicy()

	assert.ErrorIs(t, policy.Authorize(nil, PermOrderCreate), errs.ErrUnauthenticated)
	assert.ErrorIs(t, policy.AuthorizeCanteen(nil, uuid.New()), errs.ErrUnauthenticated)
	_, err := policy.ScopeCanteen(nil, nil)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestAccessPolicy_KitchenIsPinnedToItsCanteen(t *testing.T) {
	policy := NewAccessPolicy()
	own := uuid.New()
	other := uuid.New()
	kitchen := &models.Caller{UserID: uuid.New(), Role: models.RoleKitchen, CanteenID: &own}

	assert.NoError(t, policy.AuthorizeCanteen(kitchen, own))

	var authErr *errs.AuthorizationError
	require.ErrorAs(t, policy.AuthorizeCanteen(kitchen, other), &authErr)
	assert.Equal(t, errs.CodeAccessDenied, authErr.Code)

	scoped, err := policy.ScopeCanteen(kitchen, &other)
	require.NoError(t, err)
	assert.Equal(t, own, *scoped)
}

func TestAccessPolicy_AdminMayTargetAnyCanteen(t *testing.T) {
	policy := NewAccessPolicy()
	admin := &models.Caller{UserID: uuid.New(), Role: models.RoleAdmin}
	target := uuid.New()

	assert.NoError(t, policy.AuthorizeCanteen(admin, target))

	scoped, err := policy.ScopeCanteen(admin, &target)
	require.NoError(t, err)
	assert.Equal(t, target, *scoped)
}

func TestAccessPolicy_KitchenWithoutCanteen(t *testing.T) {
	policy := NewAccessPolicy()
	kitchen := &models.Caller{UserID: uuid.New(), Role: models.RoleKitchen}

	assert.ErrorIs(t, policy.AuthorizeCanteen(kitchen, uuid.New()), errs.ErrUnauthorized)
	_, err := policy.ScopeCanteen(kitchen, nil)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
