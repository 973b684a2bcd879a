package domain

import (
	"fmt"
	"strings"
)

// Role is the department an actor works for
type Role string

const (
	RoleWarehouse  Role = "warehouse"
	RoleProduction Role = "production"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
)

// Action names an operation guarded by role
type Action string

const (
	ActionPostStock        Action = "stock.post"
	ActionCreateRequest    Action = "request.create"
	ActionApproveRequest   Action = "request.approve"
	ActionRejectRequest    Action = "request.reject"
	ActionConfirmProduct   Action = "production.confirm"
	ActionReceiveGoods     Action = "production.receive"
	ActionSubmitAdjustment Action = "adjustment.submit"
	ActionReviewAdjustment Action = "adjustment.review"
	ActionRecordSale       Action = "sale.record"
)

// admin may do everything; owner is the single reviewer role for adjustments
var permissions = map[Action][]Role{
	ActionPostStock:        {RoleWarehouse},
	ActionCreateRequest:    {RoleWarehouse},
	ActionApproveRequest:   {RoleProduction},
	ActionRejectRequest:    {RoleProduction},
	ActionConfirmProduct:   {RoleProduction},
	ActionReceiveGoods:     {RoleWarehouse},
	ActionSubmitAdjustment: {RoleWarehouse},
	ActionReviewAdjustment: {RoleOwner},
	ActionRecordSale:       {RoleWarehouse, RoleOwner},
}

// Actor is whoever triggered an operation
type Actor struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// ParseRole returns the role for a given value (case-insensitive).
func ParseRole(value string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleWarehouse, RoleProduction, RoleOwner, RoleAdmin:
		return role, true
	}
	return "", false
}

// Can reports whether the actor's role may perform action
func (a Actor) Can(action Action) bool {
	if a.Role == RoleAdmin {
		return true
	}
	for _, role := range permissions[action] {
		if role == a.Role {
			return true
		}
	}
	return false
}

// Authorize returns ErrForbidden when the actor may not perform action
func (a Actor) Authorize(action Action) error {
	if a.Can(action) {
		return nil
	}
	return fmt.Errorf("%s (%s) may not %s: %w", a.Name, a.Role, action, ErrForbidden)
}
