// pkg/tenants/memory.go
package tenants

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MemStore is an in-process Store for dev bring-up and tests.
type MemStore struct {
	log *zap.SugaredLogger

	mu       sync.RWMutex
	byAPIKey map[string]Tenant
	byID     map[string]Tenant
	users    map[string]User       // key: tenantID+":"+userID
	creds    map[string]Credential // key: clientID
	byTenant map[string]string     // tenantID -> active clientID
}

// seedEntry is the on-disk/env shape of a seeded tenant.
type seedEntry struct {
	ID        string   `json:"id" yaml:"id"`
	Slug      string   `json:"slug" yaml:"slug"`
	APIKey    string   `json:"api_key" yaml:"api_key"`
	APISecret string   `json:"api_secret" yaml:"api_secret"`
	Status    string   `json:"status" yaml:"status"`
	IPAllow   []string `json:"ip_allow" yaml:"ip_allow"`
	Users     []struct {
		ID     string `json:"id" yaml:"id"`
		Role   string `json:"role" yaml:"role"`
		Status string `json:"status" yaml:"status"`
	} `json:"users" yaml:"users"`
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(log *zap.SugaredLogger) *MemStore {
	return &MemStore{
		log:      log,
		byAPIKey: map[string]Tenant{},
		byID:     map[string]Tenant{},
		users:    map[string]User{},
		creds:    map[string]Credential{},
		byTenant: map[string]string{},
	}
}

// NewMemoryStoreFromEnv seeds from TENANT_SEED_JSON (inline JSON array) or a
// YAML file, in that order of precedence.
func NewMemoryStoreFromEnv(log *zap.SugaredLogger, seedJSON, seedFile string) *MemStore {
	m := NewMemoryStore(log)
	var entries []seedEntry
	switch {
	case seedJSON != "":
		if err := json.Unmarshal([]byte(seedJSON), &entries); err != nil {
			log.Warnw("tenant seed json", "err", err)
		}
	case seedFile != "":
		b, err := os.ReadFile(seedFile)
		if err != nil {
			log.Warnw("tenant seed file", "err", err)
			break
		}
		if err := yaml.Unmarshal(b, &entries); err != nil {
			log.Warnw("tenant seed yaml", "err", err)
		}
	}
	for _, e := range entries {
		st := TenantStatus(e.Status)
		if st == "" {
			st = TenantActive
		}
		m.Put(Tenant{ID: e.ID, Slug: e.Slug, APIKey: e.APIKey, APISecret: e.APISecret, Status: st, IPAllow: e.IPAllow})
		for _, u := range e.Users {
			us := TenantStatus(u.Status)
			if us == "" {
				us = TenantActive
			}
			m.PutUser(User{ID: u.ID, TenantID: e.ID, Role: Role(u.Role), Status: us})
		}
	}
	if len(entries) > 0 {
		log.Infow("tenant seed loaded", "tenants", len(entries))
	}
	return m
}

// Put installs or replaces a tenant. Used by seeding and tests.
func (m *MemStore) Put(t Tenant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byID[t.ID]; ok && old.APIKey != t.APIKey {
		delete(m.byAPIKey, old.APIKey)
	}
	m.byAPIKey[t.APIKey] = t
	m.byID[t.ID] = t
}

// PutUser installs or replaces a tenant user.
func (m *MemStore) PutUser(u User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.TenantID+":"+u.ID] = u
}

func (m *MemStore) TenantByAPIKey(_ context.Context, key string) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.byAPIKey[key]; ok {
		return t, nil
	}
	return Tenant{}, ErrNotFound
}

func (m *MemStore) TenantByID(_ context.Context, id string) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return Tenant{}, ErrNotFound
}

func (m *MemStore) User(_ context.Context, tenantID, userID string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[tenantID+":"+userID]; ok {
		return u, nil
	}
	return User{}, ErrNotFound
}

func (m *MemStore) CredentialByClientID(_ context.Context, clientID string) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.creds[clientID]; ok {
		return c, nil
	}
	return Credential{}, ErrNotFound
}

func (m *MemStore) ReplaceCredential(_ context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.byTenant[cred.TenantID]; ok {
		old := m.creds[prev]
		old.Status = CredentialRevoked
		m.creds[prev] = old
	}
	cred.Status = CredentialActive
	m.creds[cred.ClientID] = cred
	m.byTenant[cred.TenantID] = cred.ClientID
	return nil
}
