// Package guard decides whether a view renders for the current session.
// Evaluation is a pure function over (session state, requirement) so the
// rendering layer stays free of access-control logic and the logic stays
// free of any rendering framework.
package guard

import (
	"github.com/paylaterhq/storefront-core/internal/rbac"
	"github.com/paylaterhq/storefront-core/pkg/enums"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

// Phase is the resolution state of the session query.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAbsent
	PhasePresent
)

// SessionState is the guard's view of the session query result.
type SessionState struct {
	Phase Phase
	Actor *types.Actor
}

// Loading builds the in-flight state.
func Loading() SessionState {
	return SessionState{Phase: PhaseLoading}
}

// Absent builds the no-actor state. Authentication failures map here too;
// guards must not distinguish them from an anonymous visitor.
func Absent() SessionState {
	return SessionState{Phase: PhaseAbsent}
}

// Present builds the resolved state for a signed-in actor.
func Present(actor *types.Actor) SessionState {
	if actor == nil {
		return Absent()
	}
	return SessionState{Phase: PhasePresent, Actor: actor}
}

// Requirement declares what a view demands of the session.
//
// Zero Exclude means inclusion semantics: the actor must be present, hold
// one of Roles (when set), and satisfy Permissions under the RequireAll /
// any-of mode. A set Exclude flips to guest-only semantics: the view is
// hidden from actors of that one role and rendered for everyone else.
type Requirement struct {
	Roles       []enums.Role
	Permissions []enums.Permission
	RequireAll  bool

	// Audience picks the sign-in page anonymous visitors are sent to.
	Audience enums.Role

	// Exclude switches to the guest-only flavor.
	Exclude enums.Role

	// DenyWithFallback renders an access-denied view instead of
	// redirecting on a role/permission mismatch.
	DenyWithFallback bool
}

// RequireRole builds an inclusion requirement for a single role, with that
// role as the sign-in audience.
func RequireRole(role enums.Role) Requirement {
	return Requirement{Roles: []enums.Role{role}, RequireAll: true, Audience: role}
}

// RequirePermissions builds an inclusion requirement on capability tags.
func RequirePermissions(audience enums.Role, requireAll bool, perms ...enums.Permission) Requirement {
	return Requirement{Permissions: perms, RequireAll: requireAll, Audience: audience}
}

// ExcludeRole builds a guest-only requirement that hides the view from
// actors already holding the given role.
func ExcludeRole(role enums.Role) Requirement {
	return Requirement{Exclude: role}
}

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	DecisionLoading DecisionKind = iota
	DecisionAllow
	DecisionRedirect
	DecisionDenied
)

// DeniedReason carries what the access-denied fallback renders.
type DeniedReason struct {
	ActorRole enums.Role
	Required  []enums.Permission
}

// Decision is the guard outcome consumed by the rendering layer.
type Decision struct {
	Kind   DecisionKind
	Path   string
	Reason *DeniedReason
}

func allow() Decision {
	return Decision{Kind: DecisionAllow}
}

func redirect(path string) Decision {
	return Decision{Kind: DecisionRedirect, Path: path}
}

// Evaluate resolves a requirement against the session state.
//
// A loading session never redirects; only a terminal state may. Anonymous
// visitors hitting an inclusion guard go to the audience's sign-in page;
// mismatched actors go to their own landing page unless the requirement
// opts into a visible denial.
func Evaluate(state SessionState, req Requirement) Decision {
	if state.Phase == PhaseLoading {
		return Decision{Kind: DecisionLoading}
	}
	if state.Phase == PhasePresent && state.Actor == nil {
		state = Absent()
	}

	if req.Exclude != "" {
		if state.Phase == PhasePresent && state.Actor.Role == req.Exclude {
			return redirect(LandingPath(req.Exclude))
		}
		return allow()
	}

	if state.Phase != PhasePresent {
		return redirect(SignInPath(req.Audience))
	}

	if !roleSatisfied(state.Actor.Role, req.Roles) || !permissionsSatisfied(state.Actor.Role, req) {
		if req.DenyWithFallback {
			return Decision{Kind: DecisionDenied, Reason: &DeniedReason{
				ActorRole: state.Actor.Role,
				Required:  req.Permissions,
			}}
		}
		return redirect(LandingPath(state.Actor.Role))
	}

	return allow()
}

func roleSatisfied(actual enums.Role, allowed []enums.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if role == actual {
			return true
		}
	}
	return false
}

func permissionsSatisfied(role enums.Role, req Requirement) bool {
	if len(req.Permissions) == 0 {
		return true
	}
	if req.RequireAll {
		return rbac.HasAll(role, req.Permissions)
	}
	return rbac.HasAny(role, req.Permissions)
}
