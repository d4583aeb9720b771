// pkg/tenants/postgres.go
package tenants

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed tenant store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tenants (
  id uuid PRIMARY KEY,
  slug text UNIQUE,
  api_key text UNIQUE NOT NULL,
  api_secret text NOT NULL,
  status text NOT NULL DEFAULT 'active',
  ip_allow text[] NOT NULL DEFAULT '{}',
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS tenant_users (
  id uuid,
  tenant_id uuid REFERENCES tenants(id) ON DELETE CASCADE,
  role text NOT NULL,
  status text NOT NULL DEFAULT 'active',
  created_at timestamptz NOT NULL DEFAULT NOW(),
  PRIMARY KEY (tenant_id, id)
);
CREATE TABLE IF NOT EXISTS tenant_credentials (
  client_id text PRIMARY KEY,
  tenant_id uuid REFERENCES tenants(id) ON DELETE CASCADE,
  secret_hash text NOT NULL,
  status text NOT NULL DEFAULT 'active',
  created_at timestamptz NOT NULL DEFAULT NOW()
);
-- one active credential per tenant
CREATE UNIQUE INDEX IF NOT EXISTS tenant_credentials_active_idx
  ON tenant_credentials(tenant_id) WHERE status = 'active';
`)
	return err
}

// SeedFromEnv ingests initial tenant + user data (TENANT_SEED_JSON format,
// same shape the memory store accepts). Upserts by tenant id.
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []seedEntry
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = string(TenantActive)
		}
		_, err := dbPool.Exec(ctx, `INSERT INTO tenants(id,slug,api_key,api_secret,status,ip_allow)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (id) DO UPDATE SET slug=EXCLUDED.slug,api_key=EXCLUDED.api_key,api_secret=EXCLUDED.api_secret,status=EXCLUDED.status,ip_allow=EXCLUDED.ip_allow,updated_at=NOW()`,
			e.ID, e.Slug, e.APIKey, e.APISecret, status, e.IPAllow)
		if err != nil {
			return err
		}
		for _, u := range e.Users {
			us := u.Status
			if us == "" {
				us = string(TenantActive)
			}
			_, err := dbPool.Exec(ctx, `INSERT INTO tenant_users(id,tenant_id,role,status)
			  VALUES ($1,$2,$3,$4)
			  ON CONFLICT (tenant_id,id) DO UPDATE SET role=EXCLUDED.role,status=EXCLUDED.status`,
				u.ID, e.ID, u.Role, us)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

const tenantCols = `id,slug,api_key,api_secret,status,ip_allow`

func scanTenant(row pgx.Row) (Tenant, error) {
	var t Tenant
	var allow []string
	if err := row.Scan(&t.ID, &t.Slug, &t.APIKey, &t.APISecret, &t.Status, &allow); err != nil {
		return Tenant{}, ErrNotFound
	}
	t.IPAllow = allow
	return t, nil
}

func (p *pgStore) TenantByAPIKey(ctx context.Context, key string) (Tenant, error) {
	return scanTenant(p.dbPool.QueryRow(ctx, `SELECT `+tenantCols+` FROM tenants WHERE api_key=$1`, key))
}

func (p *pgStore) TenantByID(ctx context.Context, id string) (Tenant, error) {
	return scanTenant(p.dbPool.QueryRow(ctx, `SELECT `+tenantCols+` FROM tenants WHERE id=$1`, id))
}

func (p *pgStore) User(ctx context.Context, tenantID, userID string) (User, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT id,tenant_id,role,status FROM tenant_users WHERE tenant_id=$1 AND id=$2`, tenantID, userID)
	var u User
	if err := row.Scan(&u.ID, &u.TenantID, &u.Role, &u.Status); err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (p *pgStore) CredentialByClientID(ctx context.Context, clientID string) (Credential, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT client_id,tenant_id,secret_hash,status FROM tenant_credentials WHERE client_id=$1`, clientID)
	var c Credential
	if err := row.Scan(&c.ClientID, &c.TenantID, &c.SecretHash, &c.Status); err != nil {
		return Credential{}, ErrNotFound
	}
	return c, nil
}

// ReplaceCredential revokes any active credential for the tenant and installs
// the new one in the same transaction.
func (p *pgStore) ReplaceCredential(ctx context.Context, cred Credential) error {
	tx, err := p.dbPool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `UPDATE tenant_credentials SET status='revoked' WHERE tenant_id=$1 AND status='active'`, cred.TenantID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO tenant_credentials(client_id,tenant_id,secret_hash,status) VALUES ($1,$2,$3,'active')`,
		cred.ClientID, cred.TenantID, cred.SecretHash); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
