package auth

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"walletgate/pkg/metrics"
	"walletgate/pkg/tenants"
)

// AuthRequest is the normalized request view the core consumes. The HTTP
// middleware extracts headers and captures the raw body; nothing here ever
// touches a header map.
type AuthRequest struct {
	Method       string
	RequestURI   string // path including query string, exactly as received
	Bearer       string // token from Authorization: Bearer, empty if absent
	APIKey       string
	Timestamp    string
	Nonce        string
	Signature    string
	TenantUserID string // optional, signed path only
	RemoteAddr   string
	ForwardedFor string
	Body         []byte // exact raw bytes, captured before any parsing
}

// Authenticator is the gateway entry point: it picks the credential scheme,
// runs every check in order, and yields a unified AuthContext.
type Authenticator struct {
	store          tenants.Store
	tokens         *TokenService
	guard          ReplayGuard
	window         time.Duration // accepted |now - timestamp|
	trustForwarded bool
	log            *zap.SugaredLogger
	now            func() time.Time
}

func NewAuthenticator(store tenants.Store, tokens *TokenService, guard ReplayGuard, window time.Duration, trustForwarded bool, log *zap.SugaredLogger) *Authenticator {
	if window <= 0 {
		window = 300 * time.Second
	}
	return &Authenticator{
		store:          store,
		tokens:         tokens,
		guard:          guard,
		window:         window,
		trustForwarded: trustForwarded,
		log:            log,
		now:            time.Now,
	}
}

// Authenticate runs before any business logic. All verification failures are
// converted to an *AuthError here; nothing is retried.
func (a *Authenticator) Authenticate(ctx context.Context, req AuthRequest) (AuthContext, *AuthError) {
	var ac AuthContext
	var aerr *AuthError
	if req.Bearer != "" {
		ac, aerr = a.authenticateBearer(ctx, req)
	} else {
		ac, aerr = a.authenticateSigned(ctx, req)
	}
	if aerr != nil {
		metrics.AuthRequests.WithLabelValues(schemeLabel(req), string(aerr.Code)).Inc()
		return nil, aerr
	}

	// IP allowlist gates both schemes, after tenant resolution.
	ip := ClientIP(req.RemoteAddr, req.ForwardedFor, a.trustForwarded)
	if aerr := checkIPAllow(ac.Tenant(), ip); aerr != nil {
		a.log.Infow("ip denied", "tenant", ac.Tenant().ID, "ip", ip)
		metrics.AuthRequests.WithLabelValues(ac.Scheme(), string(aerr.Code)).Inc()
		return nil, aerr
	}

	// Tenant-user attachment runs only once the IP gate has passed. A blocked
	// address must see TENANT_IP_DENIED, never a role error that would reveal
	// whether the named user exists.
	if hc, ok := ac.(HmacContext); ok && req.TenantUserID != "" {
		attached, aerr := a.attachUser(ctx, hc, req.TenantUserID)
		if aerr != nil {
			metrics.AuthRequests.WithLabelValues(ac.Scheme(), string(aerr.Code)).Inc()
			return nil, aerr
		}
		ac = attached
	}

	metrics.AuthRequests.WithLabelValues(ac.Scheme(), "ok").Inc()
	return ac, nil
}

func (a *Authenticator) attachUser(ctx context.Context, hc HmacContext, userID string) (HmacContext, *AuthError) {
	u, err := a.store.User(ctx, hc.T.ID, userID)
	if err != nil {
		return hc, &AuthError{Code: CodeRoleMissing, Message: "tenant user not found"}
	}
	if u.Status != tenants.TenantActive {
		return hc, &AuthError{Code: CodeRoleDenied, Message: "tenant user suspended"}
	}
	hc.User = &u
	return hc, nil
}

func (a *Authenticator) authenticateBearer(ctx context.Context, req AuthRequest) (AuthContext, *AuthError) {
	if a.tokens.Misconfigured() {
		a.log.Errorw("bearer auth unavailable: signing secret not configured")
		return nil, errServerMisconfigured()
	}
	claims := a.tokens.VerifyToken(req.Bearer)
	if claims == nil {
		return nil, errInvalidBearer()
	}
	t, err := a.store.TenantByID(ctx, claims.TenantID)
	if err != nil || !t.Active() {
		return nil, errInvalidBearer()
	}
	return OAuthContext{T: t, ClientID: claims.ClientID, Scopes: claims.Scope}, nil
}

func (a *Authenticator) authenticateSigned(ctx context.Context, req AuthRequest) (AuthContext, *AuthError) {
	if req.APIKey == "" || req.Timestamp == "" || req.Nonce == "" || req.Signature == "" {
		return nil, errMissingCredentials()
	}

	// Timestamp first: stale replays must not pollute the nonce set, and
	// window validity is independent of which tenant is claimed.
	ts, err := strconv.ParseInt(req.Timestamp, 10, 64)
	if err != nil {
		return nil, &AuthError{Code: CodeMissingCredentials, Message: "malformed timestamp"}
	}
	skew := a.now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > a.window {
		return nil, errTimestampExpired()
	}

	ok, gerr := a.guard.CheckAndRecord(ctx, req.Nonce)
	if gerr != nil {
		a.log.Errorw("nonce guard", "err", gerr)
		return nil, errServerMisconfigured()
	}
	if !ok {
		return nil, errReplayDetected()
	}

	t, err := a.store.TenantByAPIKey(ctx, req.APIKey)
	if err != nil || !t.Active() {
		// Generic on purpose: no tenant enumeration.
		return nil, errInvalidAPIKey()
	}

	canonical := CanonicalString(req.Method, req.RequestURI, req.Timestamp, req.Nonce, HashBody(req.Body))
	if !VerifySignature(t.APISecret, canonical, req.Signature) {
		return nil, errInvalidSignature()
	}

	return HmacContext{T: t}, nil
}

func schemeLabel(req AuthRequest) string {
	if req.Bearer != "" {
		return "oauth"
	}
	return "hmac"
}
