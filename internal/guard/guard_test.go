package guard

import (
	"testing"

	"github.com/paylaterhq/storefront-core/pkg/enums"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

func actorWithRole(role enums.Role) *types.Actor {
	return &types.Actor{ID: "a-1", Email: "actor@example.com", Role: role}
}

func TestLoadingNeverRedirects(t *testing.T) {
	requirements := []Requirement{
		RequireRole(enums.RoleAdmin),
		RequirePermissions(enums.RoleMerchant, true, enums.PermissionManageOrders),
		ExcludeRole(enums.RoleAdmin),
	}
	for _, req := range requirements {
		decision := Evaluate(Loading(), req)
		if decision.Kind != DecisionLoading {
			t.Fatalf("loading session must stay undecided, got %v", decision)
		}
		if decision.Path != "" {
			t.Fatalf("loading decision must not carry a redirect path, got %q", decision.Path)
		}
	}
}

func TestInclusionAbsentRedirectsToAudienceSignIn(t *testing.T) {
	decision := Evaluate(Absent(), RequireRole(enums.RoleMerchant))
	if decision.Kind != DecisionRedirect || decision.Path != "/merchant/signin" {
		t.Fatalf("expected redirect to merchant sign-in, got %+v", decision)
	}

	decision = Evaluate(Absent(), RequireRole(enums.RoleAdmin))
	if decision.Kind != DecisionRedirect || decision.Path != "/admin/signin" {
		t.Fatalf("expected redirect to admin sign-in, got %+v", decision)
	}
}

func TestInclusionRoleMismatchRedirectsToOwnLanding(t *testing.T) {
	decision := Evaluate(Present(actorWithRole(enums.RoleUser)), RequireRole(enums.RoleAdmin))
	if decision.Kind != DecisionRedirect || decision.Path != "/" {
		t.Fatalf("expected redirect to user landing, got %+v", decision)
	}

	decision = Evaluate(Present(actorWithRole(enums.RoleMerchant)), RequireRole(enums.RoleAdmin))
	if decision.Kind != DecisionRedirect || decision.Path != "/merchant/dashboard" {
		t.Fatalf("expected redirect to merchant landing, got %+v", decision)
	}
}

func TestInclusionAuthorizedAllows(t *testing.T) {
	decision := Evaluate(Present(actorWithRole(enums.RoleAdmin)), RequireRole(enums.RoleAdmin))
	if decision.Kind != DecisionAllow {
		t.Fatalf("expected allow, got %+v", decision)
	}
}

func TestRequireAllDeniesPartialHolder(t *testing.T) {
	// user holds manage_cart but not manage_products
	req := RequirePermissions(enums.RoleUser, true,
		enums.PermissionManageCart, enums.PermissionManageProducts)

	decision := Evaluate(Present(actorWithRole(enums.RoleUser)), req)
	if decision.Kind != DecisionRedirect {
		t.Fatalf("partial holder must be turned away under all-mode, got %+v", decision)
	}

	// merchant holds both required plus extras
	req = RequirePermissions(enums.RoleMerchant, true,
		enums.PermissionManageOrders, enums.PermissionViewRevenue)
	decision = Evaluate(Present(actorWithRole(enums.RoleMerchant)), req)
	if decision.Kind != DecisionAllow {
		t.Fatalf("superset holder must be admitted, got %+v", decision)
	}
}

func TestRequireAnyAdmitsPartialHolder(t *testing.T) {
	req := RequirePermissions(enums.RoleUser, false,
		enums.PermissionManageCart, enums.PermissionManageProducts)

	decision := Evaluate(Present(actorWithRole(enums.RoleUser)), req)
	if decision.Kind != DecisionAllow {
		t.Fatalf("any-mode must admit a single-permission holder, got %+v", decision)
	}
}

func TestDenyWithFallbackReportsReason(t *testing.T) {
	req := RequirePermissions(enums.RoleAdmin, true, enums.PermissionManageUsers)
	req.DenyWithFallback = true

	decision := Evaluate(Present(actorWithRole(enums.RoleMerchant)), req)
	if decision.Kind != DecisionDenied {
		t.Fatalf("expected denied fallback, got %+v", decision)
	}
	if decision.Reason == nil || decision.Reason.ActorRole != enums.RoleMerchant {
		t.Fatalf("denied reason must carry the actor's role, got %+v", decision.Reason)
	}
	if len(decision.Reason.Required) != 1 || decision.Reason.Required[0] != enums.PermissionManageUsers {
		t.Fatalf("denied reason must carry the required permissions, got %+v", decision.Reason)
	}
}

func TestExclusionGuard(t *testing.T) {
	req := ExcludeRole(enums.RoleAdmin)

	// admin visiting the admin sign-in page is sent home
	decision := Evaluate(Present(actorWithRole(enums.RoleAdmin)), req)
	if decision.Kind != DecisionRedirect || decision.Path != "/admin/dashboard/overview" {
		t.Fatalf("excluded role must be redirected to its landing, got %+v", decision)
	}

	// anonymous visitors see the page
	if decision := Evaluate(Absent(), req); decision.Kind != DecisionAllow {
		t.Fatalf("absent session must render guest-only pages, got %+v", decision)
	}

	// a different role sees the page too
	if decision := Evaluate(Present(actorWithRole(enums.RoleUser)), req); decision.Kind != DecisionAllow {
		t.Fatalf("other roles must render guest-only pages, got %+v", decision)
	}
}

func TestPresentWithNilActorCollapsesToAbsent(t *testing.T) {
	state := Present(nil)
	if state.Phase != PhaseAbsent {
		t.Fatalf("nil actor must normalize to absent, got %v", state.Phase)
	}
}
