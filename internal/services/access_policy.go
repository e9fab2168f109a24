package services

import (
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/google/uuid"
)

// Permission names checked by the access policy.
const (
	PermOrderCreate     = "order:create"
	PermOrderReadOwn    = "order:read-own"
	PermOrderQueue      = "order:queue"
	PermOrderHistory    = "order:history"
	PermOrderTransition = "order:transition"
	PermOrderAdmin      = "order:admin"
	PermMenuReadAll     = "menu:read-all"
	PermMenuWrite       = "menu:write"
	PermCanteenWrite    = "canteen:write"
	PermPaymentCreate   = "payment:create"
)

var rolePermissions = map[models.Role][]string{
	models.RoleStudent: {PermOrderCreate, PermOrderReadOwn, PermPaymentCreate},
	models.RoleStaff:   {PermOrderCreate, PermOrderReadOwn, PermPaymentCreate},
	models.RoleAdmin: {
		PermOrderReadOwn, PermOrderHistory, PermOrderTransition, PermOrderAdmin,
		PermMenuReadAll, PermMenuWrite, PermCanteenWrite,
	},
	models.RoleKitchen: {PermOrderReadOwn, PermOrderQueue, PermOrderHistory, PermOrderTransition},
}

// AccessPolicy answers every role and canteen scope question in one place.
type AccessPolicy interface {
	HasPermission(caller *models.Caller, permission string) bool
	// Authorize fails with an authentication error for a nil caller and an
	// authorization error when the role lacks the permission.
	Authorize(caller *models.Caller, permission string) error
	// AuthorizeCanteen fails when a kitchen caller targets another canteen.
	AuthorizeCanteen(caller *models.Caller, canteenID uuid.UUID) error
	// ScopeCanteen resolves the canteen a caller operates on: kitchen is
	// pinned to its own canteen, everyone else gets what they asked for.
	ScopeCanteen(caller *models.Caller, requested *uuid.UUID) (*uuid.UUID, error)
}

type accessPolicy struct {
	permissions map[models.Role]map[string]bool
}

func NewAccessPolicy() AccessPolicy {
	perms := make(map[models.Role]map[string]bool, len(rolePermissions))
	for role, list := range rolePermissions {
		set := make(map[string]bool, len(list))
		for _, p := range list {
			set[p] = true
		}
		perms[role] = set
	}
	return &accessPolicy{permissions: perms}
}

func (p *accessPolicy) HasPermission(caller *models.Caller, permission string) bool {
	if caller == nil {
		return false
	}
	return p.permissions[caller.Role][permission]
}

func (p *accessPolicy) Authorize(caller *models.Caller, permission string) error {
	if caller == nil {
		return errs.NewAuthenticationError("")
	}
	if !p.HasPermission(caller, permission) {
		return errs.NewUnauthorizedError("")
	}
	return nil
}

func (p *accessPolicy) AuthorizeCanteen(caller *models.Caller, canteenID uuid.UUID) error {
	if caller == nil {
		return errs.NewAuthenticationError("")
	}
	if caller.Role != models.RoleKitchen {
		return nil
	}
	if caller.CanteenID == nil || *caller.CanteenID != canteenID {
		return errs.NewAccessDeniedError()
	}
	return nil
}

func (p *accessPolicy) ScopeCanteen(caller *models.Caller, requested *uuid.UUID) (*uuid.UUID, error) {
	if caller == nil {
		return nil, errs.NewAuthenticationError("")
	}
	if caller.Role == models.RoleKitchen {
		if caller.CanteenID == nil {
			return nil, errs.NewAccessDeniedError()
		}
		own := *caller.CanteenID
		return &own, nil
	}
	return requested, nil
}
