package auth

import "net/http"

// Code identifies one entry of the closed failure taxonomy. Every rejection
// the gateway produces carries exactly one of these.
type Code string

const (
	CodeMissingCredentials  Code = "MISSING_CREDENTIALS"
	CodeTimestampExpired    Code = "TIMESTAMP_EXPIRED"
	CodeReplayDetected      Code = "REPLAY_DETECTED"
	CodeInvalidAPIKey       Code = "INVALID_API_KEY"
	CodeInvalidSignature    Code = "INVALID_SIGNATURE"
	CodeInvalidBearer       Code = "INVALID_BEARER"
	CodeInvalidClient       Code = "INVALID_CLIENT"
	CodeTenantIPDenied      Code = "TENANT_IP_DENIED"
	CodeScopeDenied         Code = "OAUTH_SCOPE_DENIED"
	CodeRoleMissing         Code = "TENANT_ROLE_MISSING"
	CodeRoleUnknown         Code = "TENANT_ROLE_UNKNOWN"
	CodeRoleDenied          Code = "TENANT_ROLE_DENIED"
	CodeServerMisconfigured Code = "SERVER_MISCONFIGURED"
)

// AuthError is the only error type the gateway returns to callers.
type AuthError struct {
	Code    Code
	Message string
}

func (e *AuthError) Error() string { return string(e.Code) + ": " + e.Message }

// Status maps the taxonomy onto HTTP statuses: 401 for credential failures,
// 403 for policy denials, 500 for deploy-time defects.
func (e *AuthError) Status() int {
	switch e.Code {
	case CodeTenantIPDenied, CodeScopeDenied, CodeRoleMissing, CodeRoleUnknown, CodeRoleDenied:
		return http.StatusForbidden
	case CodeServerMisconfigured:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

func errMissingCredentials() *AuthError {
	return &AuthError{Code: CodeMissingCredentials, Message: "missing authentication headers"}
}
func errTimestampExpired() *AuthError {
	return &AuthError{Code: CodeTimestampExpired, Message: "timestamp outside accepted window"}
}
func errReplayDetected() *AuthError {
	return &AuthError{Code: CodeReplayDetected, Message: "nonce already used"}
}
func errInvalidAPIKey() *AuthError {
	// Deliberately generic: never distinguishes unknown key from suspended tenant.
	return &AuthError{Code: CodeInvalidAPIKey, Message: "invalid API key"}
}
func errInvalidSignature() *AuthError {
	return &AuthError{Code: CodeInvalidSignature, Message: "invalid signature"}
}
func errInvalidBearer() *AuthError {
	return &AuthError{Code: CodeInvalidBearer, Message: "invalid bearer token"}
}
func errInvalidClient() *AuthError {
	// Same code for unknown id, revoked credential, and wrong secret.
	return &AuthError{Code: CodeInvalidClient, Message: "invalid client credentials"}
}
func errServerMisconfigured() *AuthError {
	return &AuthError{Code: CodeServerMisconfigured, Message: "authentication misconfigured"}
}
