package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"walletgate/pkg/secrets"
	"walletgate/pkg/tenants"
)

const clientIDPrefix = "wg_"

// Claims is the payload of an issued bearer token. Ephemeral, never persisted.
// Jti exists for future revocation; nothing checks it against a blacklist.
// Rotation stops future issuance only, and the short TTL is the mitigation.
type Claims struct {
	TenantID string   `json:"tenantId"`
	ClientID string   `json:"clientId"`
	Scope    []string `json:"scope"`
	IssuedAt int64    `json:"iat"`
	Expiry   int64    `json:"exp"`
	JTI      string   `json:"jti"`
}

// PlainCredential is the plaintext pair returned exactly once at issuance time.
type PlainCredential struct {
	ClientID     string
	ClientSecret string
}

// Grant is a successful token issuance.
type Grant struct {
	Token     string
	ExpiresIn int64 // seconds
	Claims    Claims
}

// TokenService issues and verifies self-signed bearer tokens and manages the
// client-credential pair behind them.
type TokenService struct {
	store         tenants.Store
	hasher        secrets.Hasher
	signingSecret string
	ttl           time.Duration
	log           *zap.SugaredLogger
	now           func() time.Time
}

func NewTokenService(store tenants.Store, hasher secrets.Hasher, signingSecret string, ttl time.Duration, log *zap.SugaredLogger) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		store:         store,
		hasher:        hasher,
		signingSecret: signingSecret,
		ttl:           ttl,
		log:           log,
		now:           time.Now,
	}
}

// IssueCredential mints a fresh clientId/clientSecret pair for the tenant and
// atomically replaces any prior credential. The plaintext secret is returned
// here and never again; only its hash is stored.
func (s *TokenService) IssueCredential(ctx context.Context, tenantID string) (PlainCredential, error) {
	id, err := randomToken(18)
	if err != nil {
		return PlainCredential{}, err
	}
	secret, err := randomToken(32)
	if err != nil {
		return PlainCredential{}, err
	}
	clientID := clientIDPrefix + id
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return PlainCredential{}, err
	}
	if err := s.store.ReplaceCredential(ctx, tenants.Credential{
		TenantID:   tenantID,
		ClientID:   clientID,
		SecretHash: hash,
	}); err != nil {
		return PlainCredential{}, err
	}
	return PlainCredential{ClientID: clientID, ClientSecret: secret}, nil
}

// IssueToken exchanges a client-credential pair for a signed bearer token.
// Unknown clientId, revoked credential, and wrong secret all fail with the
// same INVALID_CLIENT so callers cannot probe which part was wrong.
func (s *TokenService) IssueToken(ctx context.Context, clientID, clientSecret, scope string) (Grant, *AuthError) {
	if s.signingSecret == "" {
		s.log.Errorw("token signing secret not configured")
		return Grant{}, errServerMisconfigured()
	}
	cred, err := s.store.CredentialByClientID(ctx, clientID)
	if err != nil || cred.Status != tenants.CredentialActive {
		return Grant{}, errInvalidClient()
	}
	if !s.hasher.Verify(clientSecret, cred.SecretHash) {
		return Grant{}, errInvalidClient()
	}
	iat := s.now().Unix()
	claims := Claims{
		TenantID: cred.TenantID,
		ClientID: clientID,
		Scope:    strings.Fields(scope),
		IssuedAt: iat,
		Expiry:   iat + int64(s.ttl/time.Second),
		JTI:      uuid.NewString(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return Grant{}, errInvalidClient()
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	token := encoded + "." + Sign(s.signingSecret, encoded)
	return Grant{Token: token, ExpiresIn: int64(s.ttl / time.Second), Claims: claims}, nil
}

// VerifyToken checks structure, signature, and expiry. Every failure mode
// returns nil so the gateway responds with a single uniform 401.
func (s *TokenService) VerifyToken(token string) *Claims {
	if s.signingSecret == "" {
		return nil
	}
	encoded, sigHex, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sigHex == "" {
		return nil
	}
	provided, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil
	}
	expected, err := hex.DecodeString(Sign(s.signingSecret, encoded))
	if err != nil || len(provided) != len(expected) {
		return nil
	}
	if !hmac.Equal(provided, expected) {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	if claims.TenantID == "" || claims.ClientID == "" {
		return nil
	}
	// Expiry is checked against the verification-time clock.
	if claims.Expiry != 0 && claims.Expiry < s.now().Unix() {
		return nil
	}
	return &claims
}

// Misconfigured reports whether token operations would fail with a 500.
func (s *TokenService) Misconfigured() bool { return s.signingSecret == "" }

func randomToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
