package auth

import (
	"walletgate/pkg/tenants"
)

// ScopeWildcard grants every scope to a bearer token that carries it.
const ScopeWildcard = "*"

// RequireScope enforces scope policy on an authenticated context.
//
// Signed-request contexts always pass: tenant-level shared-secret auth is
// treated as full access, and scope limits apply only to delegated bearer
// tokens. That asymmetry is deliberate.
func RequireScope(ac AuthContext, scope string) *AuthError {
	oc, ok := ac.(OAuthContext)
	if !ok {
		return nil
	}
	for _, s := range oc.Scopes {
		if s == scope || s == ScopeWildcard {
			return nil
		}
	}
	return &AuthError{Code: CodeScopeDenied, Message: "token not granted scope " + scope}
}

// RequireRole enforces tenant-user role policy. It applies only to
// signed-request contexts carrying a user; a context without one (including
// every bearer context) passes, since role gating rides on the optional
// user-identifying header.
func RequireRole(ac AuthContext, allowed ...tenants.Role) *AuthError {
	hc, ok := ac.(HmacContext)
	if !ok || hc.User == nil {
		return nil
	}
	role := hc.User.Role
	if role == "" {
		return &AuthError{Code: CodeRoleMissing, Message: "tenant user has no role"}
	}
	if !role.Known() {
		return &AuthError{Code: CodeRoleUnknown, Message: "tenant user role not recognized"}
	}
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return &AuthError{Code: CodeRoleDenied, Message: "tenant user role not permitted for this operation"}
}
