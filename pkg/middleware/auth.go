// pkg/middleware/auth.go
package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"walletgate/internal/auth"
	"walletgate/pkg/httpx"
)

// Header names of the request-signing scheme.
const (
	HeaderAPIKey       = "X-API-KEY"
	HeaderTimestamp    = "X-TIMESTAMP"
	HeaderNonce        = "X-NONCE"
	HeaderSignature    = "X-SIGNATURE"
	HeaderTenantUserID = "X-TENANT-USER-ID"

	// MaxSignedBody bounds how much body we hash when authenticating.
	MaxSignedBody int64 = 1 << 20 // 1 MiB
)

type ctxAuthKey struct{}

// AuthContextFrom returns the authenticated context, or nil outside the
// authenticated route group.
func AuthContextFrom(ctx context.Context) auth.AuthContext {
	if v := ctx.Value(ctxAuthKey{}); v != nil {
		if ac, ok := v.(auth.AuthContext); ok {
			return ac
		}
	}
	return nil
}

// Authenticate guards a route group with the gateway authenticator. The raw
// body is captured before any handler can parse it, since a re-serialized
// body would never byte-match what the client signed, then restored for
// downstream reads.
func Authenticate(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil && r.Body != http.NoBody {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, MaxSignedBody+1))
				if err != nil || int64(len(body)) > MaxSignedBody {
					httpx.Error(w, http.StatusRequestEntityTooLarge, "request body too large to authenticate", "")
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			// The raw request-line target, not a re-encoding of the parsed
			// URL: the client signed the exact bytes it sent.
			uri := r.RequestURI
			if uri == "" {
				uri = r.URL.RequestURI()
			}

			req := auth.AuthRequest{
				Method:       r.Method,
				RequestURI:   uri,
				Bearer:       bearerToken(r.Header.Get("Authorization")),
				APIKey:       r.Header.Get(HeaderAPIKey),
				Timestamp:    r.Header.Get(HeaderTimestamp),
				Nonce:        r.Header.Get(HeaderNonce),
				Signature:    r.Header.Get(HeaderSignature),
				TenantUserID: r.Header.Get(HeaderTenantUserID),
				RemoteAddr:   r.RemoteAddr,
				ForwardedFor: r.Header.Get("X-Forwarded-For"),
				Body:         body,
			}
			ac, aerr := a.Authenticate(r.Context(), req)
			if aerr != nil {
				httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxAuthKey{}, ac)))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>", scheme
// case-insensitive per RFC 7235. Empty when absent or a different scheme.
func bearerToken(authz string) string {
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
