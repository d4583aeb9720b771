// cmd/credctl/main.go
//
// Operator tool: mint or rotate the client credential of a tenant. The
// plaintext secret is printed exactly once here and is not retrievable
// afterwards; only its hash is stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"walletgate/internal/auth"
	"walletgate/pkg/config"
	"walletgate/pkg/db"
	"walletgate/pkg/logger"
	"walletgate/pkg/secrets"
	"walletgate/pkg/tenants"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant id to issue/rotate a credential for")
	flag.Parse()
	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "usage: credctl -tenant <tenant-id>")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(cfg.Env)

	pool := db.MustConnect(cfg, log)
	if pool == nil {
		log.Fatalw("credctl requires DATABASE_URL")
	}
	store := tenants.NewPostgresStore(pool, log)

	if _, err := store.TenantByID(context.Background(), *tenantID); err != nil {
		log.Fatalw("tenant lookup", "tenant", *tenantID, "err", err)
	}

	tokens := auth.NewTokenService(store, secrets.NewArgon2id(secrets.Default), cfg.TokenSigningSecret, cfg.TokenTTL, log)
	cred, err := tokens.IssueCredential(context.Background(), *tenantID)
	if err != nil {
		log.Fatalw("issue credential", "err", err)
	}

	fmt.Printf("client_id:     %s\n", cred.ClientID)
	fmt.Printf("client_secret: %s\n", cred.ClientSecret)
	fmt.Println("store the secret now; it cannot be shown again")
}
