package tenants

// TenantStatus is the lifecycle state of a tenant account.
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// CredentialStatus is the lifecycle state of a client credential.
type CredentialStatus string

const (
	CredentialActive  CredentialStatus = "active"
	CredentialRevoked CredentialStatus = "revoked"
)

// Role is a tenant-user role. Closed set; anything else is rejected.
type Role string

const (
	RoleOperator Role = "OPERATOR"
	RoleAnalyst  Role = "ANALYST"
	RoleReadOnly Role = "READ_ONLY"
)

// Known reports whether r is one of the three defined roles.
func (r Role) Known() bool {
	switch r {
	case RoleOperator, RoleAnalyst, RoleReadOnly:
		return true
	}
	return false
}

// Tenant represents a logical customer / account space. The gateway only
// reads tenants; status changes and secret rotation happen elsewhere.
type Tenant struct {
	ID        string // uuid
	Slug      string // short name (acme)
	APIKey    string // public key of the request-signing scheme
	APISecret string // shared HMAC secret of the request-signing scheme
	Status    TenantStatus
	IPAllow   []string // exact-match allowlist; empty means unrestricted
}

// Active reports whether the tenant may authenticate at all.
func (t Tenant) Active() bool { return t.Status == TenantActive }

// Credential is the client-credentials pair backing the bearer flow.
// At most one active credential exists per tenant; rotation replaces
// ClientID and SecretHash together.
type Credential struct {
	TenantID   string
	ClientID   string // public, unique, "wg_"-prefixed
	SecretHash string // one-way hash; the plaintext is shown exactly once
	Status     CredentialStatus
}

// User is a human operator inside a tenant. Attached to signed-request
// contexts only; bearer tokens are tenant-scoped, never user-scoped.
type User struct {
	ID       string
	TenantID string
	Role     Role
	Status   TenantStatus
}
