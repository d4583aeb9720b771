package tenants

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that miss. Callers translate it to a
// deliberately generic client error so tenants cannot be enumerated.
var ErrNotFound = errors.New("not found")

// Store is the read-mostly persistence boundary the gateway consumes.
// Lookups are idempotent; ReplaceCredential is the single mutation and
// exists to back credential rotation.
type Store interface {
	// TenantByAPIKey resolves a tenant from its public API key.
	TenantByAPIKey(ctx context.Context, key string) (Tenant, error)
	// TenantByID resolves a tenant from its id (bearer-token path).
	TenantByID(ctx context.Context, id string) (Tenant, error)
	// User resolves a tenant-scoped human user.
	User(ctx context.Context, tenantID, userID string) (User, error)
	// CredentialByClientID resolves a client credential for token issuance.
	CredentialByClientID(ctx context.Context, clientID string) (Credential, error)
	// ReplaceCredential atomically installs cred as the tenant's only active
	// credential, revoking any prior one.
	ReplaceCredential(ctx context.Context, cred Credential) error
}
