package auth

import (
	"walletgate/pkg/tenants"
)

// AuthContext is the unified result of authentication, one variant per
// credential scheme. Created fresh per request and never persisted.
type AuthContext interface {
	// Tenant returns the resolved tenant. Always set on success.
	Tenant() tenants.Tenant
	// Scheme is "hmac" or "oauth".
	Scheme() string
}

// HmacContext is a signed-request authentication. User is non-nil only when
// the request named a tenant user that resolved to an active account.
type HmacContext struct {
	T    tenants.Tenant
	User *tenants.User
}

func (c HmacContext) Tenant() tenants.Tenant { return c.T }
func (c HmacContext) Scheme() string         { return "hmac" }

// OAuthContext is a bearer-token authentication. Tenant-scoped only; no user.
type OAuthContext struct {
	T        tenants.Tenant
	ClientID string
	Scopes   []string
}

func (c OAuthContext) Tenant() tenants.Tenant { return c.T }
func (c OAuthContext) Scheme() string         { return "oauth" }
