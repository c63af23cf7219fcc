package enums

// Permission is a capability tag granted to a role.
type Permission string

const (
	PermissionBrowseCatalog   Permission = "browse_catalog"
	PermissionManageCart      Permission = "manage_cart"
	PermissionViewWallet      Permission = "view_wallet"
	PermissionViewOrders      Permission = "view_orders"
	PermissionManageProducts  Permission = "manage_products"
	PermissionManageOrders    Permission = "manage_orders"
	PermissionViewRevenue     Permission = "view_revenue"
	PermissionManageUsers     Permission = "manage_users"
	PermissionManageMerchants Permission = "manage_merchants"
)

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}
