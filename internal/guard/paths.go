package guard

import "github.com/paylaterhq/storefront-core/pkg/enums"

var landingPaths = map[enums.Role]string{
	enums.RoleUser:     "/",
	enums.RoleMerchant: "/merchant/dashboard",
	enums.RoleAdmin:    "/admin/dashboard/overview",
}

var signInPaths = map[enums.Role]string{
	enums.RoleUser:     "/signin",
	enums.RoleMerchant: "/merchant/signin",
	enums.RoleAdmin:    "/admin/signin",
}

// LandingPath returns the role's home destination after a redirect-away.
func LandingPath(role enums.Role) string {
	if path, ok := landingPaths[role]; ok {
		return path
	}
	return landingPaths[enums.RoleUser]
}

// SignInPath returns where an anonymous visitor is sent to authenticate for
// the given audience.
func SignInPath(audience enums.Role) string {
	if path, ok := signInPaths[audience]; ok {
		return path
	}
	return signInPaths[enums.RoleUser]
}
