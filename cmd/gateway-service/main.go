// cmd/gateway-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"walletgate/internal/auth"
	"walletgate/internal/httpapi"
	"walletgate/pkg/config"
	"walletgate/pkg/db"
	"walletgate/pkg/logger"
	"walletgate/pkg/middleware"
	"walletgate/pkg/secrets"
	"walletgate/pkg/tenants"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var store tenants.Store
	if pool != nil {
		store = tenants.NewPostgresStore(pool, log)
		if err := tenants.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := tenants.SeedFromEnv(context.Background(), pool, cfg.TenantSeedJSON); err != nil {
			log.Warnw("seed", "err", err)
		}
	} else {
		store = tenants.NewMemoryStoreFromEnv(log, cfg.TenantSeedJSON, cfg.TenantSeedFile)
	}

	var guard auth.ReplayGuard
	var localGuard *auth.NonceGuard
	if rdb != nil {
		guard = auth.NewRedisNonceGuard(rdb, cfg.NonceClearInterval)
		log.Infow("nonce guard", "backend", "redis", "ttl", cfg.NonceClearInterval)
	} else {
		localGuard = auth.NewNonceGuard(cfg.NonceClearInterval)
		localGuard.Start()
		guard = localGuard
		log.Infow("nonce guard", "backend", "memory", "clear_interval", cfg.NonceClearInterval)
	}

	hasher := secrets.NewArgon2id(secrets.Default)
	tokens := auth.NewTokenService(store, hasher, cfg.TokenSigningSecret, cfg.TokenTTL, log)
	authenticator := auth.NewAuthenticator(store, tokens, guard, cfg.TimestampWindow, cfg.TrustForwardedFor, log)
	wallet := httpapi.NewWalletService()

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Post("/oauth/token", httpapi.TokenHandler(tokens, log))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authenticate(authenticator))
		httpapi.RegisterWalletRoutes(pr, wallet)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("gateway-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if localGuard != nil {
		localGuard.Stop()
	}
	fmt.Println("gateway-service stopped")
}
