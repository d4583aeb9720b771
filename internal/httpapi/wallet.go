package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"walletgate/internal/auth"
	"walletgate/pkg/httpx"
	"walletgate/pkg/middleware"
	"walletgate/pkg/tenants"
)

// WalletService is a deliberately small ledger standing in for the business
// logic behind the gateway. It exists so the scope/role checks have real
// operations to protect.
type WalletService struct {
	mu       sync.Mutex
	balances map[string]int64 // tenantID -> minor units
}

func NewWalletService() *WalletService {
	return &WalletService{balances: map[string]int64{}}
}

// RegisterWalletRoutes mounts the sample surface. Callers must wrap the group
// with middleware.Authenticate first.
func RegisterWalletRoutes(r chi.Router, w *WalletService) {
	r.Get("/v1/wallet", w.handleRead)
	r.Post("/v1/wallet/debit", w.handleDebit)
}

func (s *WalletService) handleRead(w http.ResponseWriter, r *http.Request) {
	ac := middleware.AuthContextFrom(r.Context())
	if ac == nil {
		httpx.Error(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	if aerr := auth.RequireScope(ac, "wallet:read"); aerr != nil {
		httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
		return
	}
	if aerr := auth.RequireRole(ac, tenants.RoleOperator, tenants.RoleAnalyst, tenants.RoleReadOnly); aerr != nil {
		httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
		return
	}
	s.mu.Lock()
	bal := s.balances[ac.Tenant().ID]
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, map[string]any{"tenant": ac.Tenant().ID, "balance": bal})
}

func (s *WalletService) handleDebit(w http.ResponseWriter, r *http.Request) {
	ac := middleware.AuthContextFrom(r.Context())
	if ac == nil {
		httpx.Error(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	if aerr := auth.RequireScope(ac, "wallet:write"); aerr != nil {
		httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
		return
	}
	// Wallet mutation is operator-only.
	if aerr := auth.RequireRole(ac, tenants.RoleOperator); aerr != nil {
		httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
		return
	}
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount <= 0 {
		httpx.Error(w, http.StatusBadRequest, "amount must be a positive integer", "")
		return
	}
	s.mu.Lock()
	s.balances[ac.Tenant().ID] -= body.Amount
	bal := s.balances[ac.Tenant().ID]
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, map[string]any{"tenant": ac.Tenant().ID, "balance": bal})
}

// Credit seeds a balance. Used by tests and dev tooling.
func (s *WalletService) Credit(tenantID string, amount int64) {
	s.mu.Lock()
	s.balances[tenantID] += amount
	s.mu.Unlock()
}
