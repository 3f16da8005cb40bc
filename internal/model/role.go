package model

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is the single coarse role a user holds. It never changes after registration.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
	RoleCustomer Role = "customer"
)

// Capability names an action guarded by authorization middleware
type Capability string

const (
	CapManageProducts Capability = "product:manage"
	CapViewAllOrders  Capability = "order:view_all"
	CapViewUsers      Capability = "user:view"
	CapViewDashboard  Capability = "dashboard:view"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:    {CapManageProducts, CapViewAllOrders, CapViewUsers, CapViewDashboard},
	RoleDelivery: {CapViewAllOrders},
	RoleCustomer: {},
}

// ParseRole converts a raw role string. Empty input defaults to customer.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleCustomer, nil
	}
	r := Role(s)
	if _, ok := roleCapabilities[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Can reports whether the role grants the capability
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities returns the capability codes granted to the role
func (r Role) Capabilities() []string {
	caps := roleCapabilities[r]
	codes := make([]string, len(caps))
	for i, c := range caps {
		codes[i] = string(c)
	}
	return codes
}
