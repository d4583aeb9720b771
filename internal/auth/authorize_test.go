package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"walletgate/pkg/tenants"
)

func TestRequireScopeHmacAlwaysFullAccess(t *testing.T) {
	hc := HmacContext{T: tenants.Tenant{ID: "t-1"}}
	require.Nil(t, RequireScope(hc, "wallet:write"))
	require.Nil(t, RequireScope(hc, "anything:at:all"))
}

func TestRequireScopeOAuth(t *testing.T) {
	oc := OAuthContext{T: tenants.Tenant{ID: "t-1"}, Scopes: []string{"wallet:read"}}
	require.Nil(t, RequireScope(oc, "wallet:read"))

	aerr := RequireScope(oc, "wallet:write")
	require.NotNil(t, aerr)
	require.Equal(t, CodeScopeDenied, aerr.Code)
	require.Equal(t, 403, aerr.Status())
}

func TestRequireScopeWildcard(t *testing.T) {
	oc := OAuthContext{Scopes: []string{"*"}}
	require.Nil(t, RequireScope(oc, "wallet:write"))
}

func TestRequireScopeEmptyScopeList(t *testing.T) {
	oc := OAuthContext{}
	aerr := RequireScope(oc, "wallet:read")
	require.NotNil(t, aerr)
	require.Equal(t, CodeScopeDenied, aerr.Code)
}

func TestRequireRoleNoUserPasses(t *testing.T) {
	require.Nil(t, RequireRole(HmacContext{}, tenants.RoleOperator))
	require.Nil(t, RequireRole(OAuthContext{}, tenants.RoleOperator))
}

func TestRequireRoleMatrix(t *testing.T) {
	user := func(r tenants.Role) HmacContext {
		return HmacContext{User: &tenants.User{ID: "u", Role: r, Status: tenants.TenantActive}}
	}

	require.Nil(t, RequireRole(user(tenants.RoleOperator), tenants.RoleOperator))
	require.Nil(t, RequireRole(user(tenants.RoleReadOnly), tenants.RoleOperator, tenants.RoleAnalyst, tenants.RoleReadOnly))

	denied := RequireRole(user(tenants.RoleReadOnly), tenants.RoleOperator)
	require.NotNil(t, denied)
	require.Equal(t, CodeRoleDenied, denied.Code)

	missing := RequireRole(user(""), tenants.RoleOperator)
	require.NotNil(t, missing)
	require.Equal(t, CodeRoleMissing, missing.Code)

	unknown := RequireRole(user("SUPERUSER"), tenants.RoleOperator)
	require.NotNil(t, unknown)
	require.Equal(t, CodeRoleUnknown, unknown.Code)
}
