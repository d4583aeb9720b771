package auth

import (
	"net"
	"strings"

	"walletgate/pkg/tenants"
)

// ClientIP resolves the caller's address: first hop of the forwarded-for
// header when that header is trusted, else the transport peer. The port and
// any IPv4-mapped-IPv6 prefix are stripped.
func ClientIP(remoteAddr, forwardedFor string, trustForwarded bool) string {
	ip := remoteAddr
	if trustForwarded && forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		ip = strings.TrimSpace(first)
	}
	// remoteAddr is usually host:port; forwarded entries are usually bare.
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ip = strings.Trim(ip, "[]")
	ip = strings.TrimPrefix(ip, "::ffff:")
	return ip
}

// checkIPAllow gates the resolved client IP against the tenant allowlist.
// An empty allowlist means unrestricted.
func checkIPAllow(t tenants.Tenant, clientIP string) *AuthError {
	if len(t.IPAllow) == 0 {
		return nil
	}
	for _, allowed := range t.IPAllow {
		if clientIP == allowed {
			return nil
		}
	}
	return &AuthError{Code: CodeTenantIPDenied, Message: "client IP not allowlisted"}
}
