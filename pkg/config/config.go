// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Request-signing scheme
	TimestampWindow    time.Duration // max |now - X-TIMESTAMP| accepted
	NonceClearInterval time.Duration // wholesale clear period of the nonce set

	// Bearer token scheme
	TokenSigningSecret string // server-side HMAC key for issued tokens
	TokenTTL           time.Duration

	// Client IP resolution
	TrustForwardedFor bool

	// Redis & Postgres (both optional; memory store + in-process nonce set otherwise)
	RedisURL    string
	DatabaseURL string

	// Tenant seeding for dev bring-up
	TenantSeedJSON string
	TenantSeedFile string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:                env("WALLETGATE_ENV", "dev"),
		HTTPAddr:           env("WALLETGATE_HTTP_ADDR", ":8080"),
		TimestampWindow:    envDur("TIMESTAMP_WINDOW_SEC", 300) * time.Second,
		NonceClearInterval: envDur("NONCE_CLEAR_INTERVAL_SEC", 600) * time.Second,
		TokenSigningSecret: env("TOKEN_SIGNING_SECRET", ""),
		TokenTTL:           envDur("TOKEN_TTL_SEC", 3600) * time.Second,
		TrustForwardedFor:  envBool("TRUST_FORWARDED_FOR", true),
		RedisURL:           env("REDIS_URL", ""),
		DatabaseURL:        env("DATABASE_URL", ""),
		TenantSeedJSON:     env("TENANT_SEED_JSON", ""),
		TenantSeedFile:     env("TENANT_SEED_FILE", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set, using in-memory tenant store for dev")
	}
	if cfg.TokenSigningSecret == "" {
		log.Println("[WARN] TOKEN_SIGNING_SECRET not set, bearer token issuance will fail with 500")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
