// Package httpapi mounts the gateway's HTTP surface: the client-credentials
// token endpoint and a small wallet API exercising scope and role policy.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"walletgate/internal/auth"
	"walletgate/pkg/httpx"
	"walletgate/pkg/metrics"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// TokenHandler implements POST /oauth/token (grant_type=client_credentials).
// Every credential failure is the same INVALID_CLIENT 401.
func TokenHandler(tokens *auth.TokenService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httpx.Error(w, http.StatusBadRequest, "malformed form body", "")
			return
		}
		if r.PostFormValue("grant_type") != "client_credentials" {
			httpx.Error(w, http.StatusBadRequest, "unsupported grant_type", "")
			return
		}
		clientID := r.PostFormValue("client_id")
		clientSecret := r.PostFormValue("client_secret")
		scope := r.PostFormValue("scope")

		grant, aerr := tokens.IssueToken(r.Context(), clientID, clientSecret, scope)
		if aerr != nil {
			if aerr.Code == auth.CodeServerMisconfigured {
				log.Errorw("token issuance unavailable", "code", aerr.Code)
			}
			httpx.Error(w, aerr.Status(), aerr.Message, string(aerr.Code))
			return
		}
		metrics.TokensIssued.Inc()
		httpx.JSON(w, http.StatusOK, tokenResponse{
			AccessToken: grant.Token,
			TokenType:   "Bearer",
			ExpiresIn:   grant.ExpiresIn,
			Scope:       scope,
		})
	}
}
