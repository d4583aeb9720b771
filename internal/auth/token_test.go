package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"walletgate/pkg/secrets"
	"walletgate/pkg/tenants"
)

func testTokenService(t *testing.T, store tenants.Store) *TokenService {
	t.Helper()
	return NewTokenService(store, secrets.NewArgon2id(secrets.Default), "signing-secret", time.Hour, zap.NewNop().Sugar())
}

func TestIssueCredentialRotation(t *testing.T) {
	store := tenants.NewMemoryStore(zap.NewNop().Sugar())
	svc := testTokenService(t, store)
	ctx := context.Background()

	first, err := svc.IssueCredential(ctx, "t-1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.ClientID, "wg_"))
	require.NotEmpty(t, first.ClientSecret)

	second, err := svc.IssueCredential(ctx, "t-1")
	require.NoError(t, err)
	require.NotEqual(t, first.ClientID, second.ClientID)

	// Rotation revokes the prior credential: its id no longer issues tokens.
	_, aerr := svc.IssueToken(ctx, first.ClientID, first.ClientSecret, "")
	require.NotNil(t, aerr)
	require.Equal(t, CodeInvalidClient, aerr.Code)

	_, aerr = svc.IssueToken(ctx, second.ClientID, second.ClientSecret, "")
	require.Nil(t, aerr)
}

func TestIssueTokenRoundTrip(t *testing.T) {
	store := tenants.NewMemoryStore(zap.NewNop().Sugar())
	svc := testTokenService(t, store)
	ctx := context.Background()

	cred, err := svc.IssueCredential(ctx, "t-1")
	require.NoError(t, err)

	grant, aerr := svc.IssueToken(ctx, cred.ClientID, cred.ClientSecret, "wallet:read wallet:write")
	require.Nil(t, aerr)
	require.Equal(t, int64(3600), grant.ExpiresIn)

	claims := svc.VerifyToken(grant.Token)
	require.NotNil(t, claims)
	require.Equal(t, "t-1", claims.TenantID)
	require.Equal(t, cred.ClientID, claims.ClientID)
	require.Equal(t, []string{"wallet:read", "wallet:write"}, claims.Scope)
	require.NotEmpty(t, claims.JTI)
	require.Equal(t, claims.IssuedAt+3600, claims.Expiry)
}

func TestIssueTokenNonDistinguishingFailures(t *testing.T) {
	store := tenants.NewMemoryStore(zap.NewNop().Sugar())
	svc := testTokenService(t, store)
	ctx := context.Background()

	cred, err := svc.IssueCredential(ctx, "t-1")
	require.NoError(t, err)

	_, wrongSecret := svc.IssueToken(ctx, cred.ClientID, "nope", "")
	_, unknownID := svc.IssueToken(ctx, "wg_doesnotexist", cred.ClientSecret, "")
	require.NotNil(t, wrongSecret)
	require.NotNil(t, unknownID)
	require.Equal(t, wrongSecret.Code, unknownID.Code)
	require.Equal(t, wrongSecret.Message, unknownID.Message)
}

func TestVerifyTokenRejections(t *testing.T) {
	store := tenants.NewMemoryStore(zap.NewNop().Sugar())
	svc := testTokenService(t, store)
	ctx := context.Background()

	cred, err := svc.IssueCredential(ctx, "t-1")
	require.NoError(t, err)
	grant, aerr := svc.IssueToken(ctx, cred.ClientID, cred.ClientSecret, "wallet:read")
	require.Nil(t, aerr)

	t.Run("malformed", func(t *testing.T) {
		require.Nil(t, svc.VerifyToken(""))
		require.Nil(t, svc.VerifyToken("nodot"))
		require.Nil(t, svc.VerifyToken(".onlysig"))
		require.Nil(t, svc.VerifyToken("onlypayload."))
	})

	t.Run("tampered signature", func(t *testing.T) {
		encoded, sig, _ := strings.Cut(grant.Token, ".")
		flipped := "0"
		if strings.HasSuffix(sig, "0") {
			flipped = "1"
		}
		require.Nil(t, svc.VerifyToken(encoded+"."+sig[:len(sig)-1]+flipped))
	})

	t.Run("tampered payload", func(t *testing.T) {
		_, sig, _ := strings.Cut(grant.Token, ".")
		other := base64.RawURLEncoding.EncodeToString([]byte(`{"tenantId":"t-2","clientId":"x"}`))
		require.Nil(t, svc.VerifyToken(other+"."+sig))
	})

	t.Run("missing required claims", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"scope":[]}`))
		forged := payload + "." + Sign("signing-secret", payload)
		require.Nil(t, svc.VerifyToken(forged))
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()
		require.Nil(t, svc.VerifyToken(grant.Token))
	})
}

func TestTokenServiceMisconfigured(t *testing.T) {
	store := tenants.NewMemoryStore(zap.NewNop().Sugar())
	svc := NewTokenService(store, secrets.NewArgon2id(secrets.Default), "", time.Hour, zap.NewNop().Sugar())
	require.True(t, svc.Misconfigured())

	_, aerr := svc.IssueToken(context.Background(), "wg_x", "y", "")
	require.NotNil(t, aerr)
	require.Equal(t, CodeServerMisconfigured, aerr.Code)
	require.Equal(t, 500, aerr.Status())
}
