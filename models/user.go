package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleVendor   UserRole = "vendor"
	RoleDriver   UserRole = "driver"
	RoleAdmin    UserRole = "admin"
	RoleStaff    UserRole = "staff"
)

// Permission is a named capability a user may hold.
// Admins hold every permission implicitly; staff carry an explicit list.
type Permission string

const (
	PermManageStores   Permission = "manage_stores"
	PermManageProducts Permission = "manage_products"
	PermManageOrders   Permission = "manage_orders"
	PermManageUsers    Permission = "manage_users"
	PermManageDrivers  Permission = "manage_drivers"
	PermManageCurrency Permission = "manage_currency"
	PermViewReports    Permission = "view_reports"
)

// RoleCapabilities maps each role to the permissions it holds by default,
// evaluated once at login instead of re-switching on role per request.
var RoleCapabilities = map[UserRole][]Permission{
	RoleAdmin: {
		PermManageStores, PermManageProducts, PermManageOrders,
		PermManageUsers, PermManageDrivers, PermManageCurrency, PermViewReports,
	},
	RoleVendor:   {PermManageProducts},
	RoleStaff:    {}, // staff permissions are assigned per account
	RoleCustomer: {},
	RoleDriver:   {},
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Role         UserRole     `json:"role"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	PasswordHash string       `json:"-"`
	Permissions  []Permission `json:"permissions,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// HasPermission reports whether the user holds the given capability.
// Admin passes unconditionally.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
