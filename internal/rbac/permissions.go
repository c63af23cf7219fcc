// Package rbac holds the static role-to-capability mapping. The mapping is
// immutable at runtime; the only way an actor's capabilities change is by
// signing in as a different role.
package rbac

import "github.com/paylaterhq/storefront-core/pkg/enums"

var rolePermissions = map[enums.Role][]enums.Permission{
	enums.RoleUser: {
		enums.PermissionBrowseCatalog,
		enums.PermissionManageCart,
		enums.PermissionViewWallet,
		enums.PermissionViewOrders,
	},
	enums.RoleMerchant: {
		enums.PermissionManageProducts,
		enums.PermissionManageOrders,
		enums.PermissionViewRevenue,
	},
	enums.RoleAdmin: {
		enums.PermissionManageUsers,
		enums.PermissionManageMerchants,
		enums.PermissionManageOrders,
		enums.PermissionViewRevenue,
	},
}

// PermissionsFor returns a copy of the role's permission set.
func PermissionsFor(role enums.Role) []enums.Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]enums.Permission, len(perms))
	copy(out, perms)
	return out
}

// Has reports whether the role holds a single permission.
func Has(role enums.Role, perm enums.Permission) bool {
	for _, candidate := range rolePermissions[role] {
		if candidate == perm {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every listed permission.
func HasAll(role enums.Role, perms []enums.Permission) bool {
	for _, perm := range perms {
		if !Has(role, perm) {
			return false
		}
	}
	return true
}

// HasAny reports whether the role holds at least one listed permission.
func HasAny(role enums.Role, perms []enums.Permission) bool {
	for _, perm := range perms {
		if Has(role, perm) {
			return true
		}
	}
	return false
}
