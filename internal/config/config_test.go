package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_NAME":         "jamco",
		"APP_ENV":          "test",
		"HTTP_PORT":        "8080",
		"DB_NAME":          "jamco",
		"DB_USER":          "jamco",
		"AUTH_SECRET":      strings.Repeat("s", 32),
		"GOOGLE_CLIENT_ID": "client-id",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Database.DBHost != "localhost" || cfg.Database.DBPort != "5432" {
		t.Fatalf("unexpected db defaults: %+v", cfg.Database)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Redis.TTL != 600*time.Second {
		t.Fatalf("unexpected redis ttl: %s", cfg.Redis.TTL)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("unexpected driver: %s", cfg.Database.Driver)
	}
	if cfg.Migrations.Dir != "migrations" {
		t.Fatalf("unexpected migrations dir: %s", cfg.Migrations.Dir)
	}
}

func TestFromEnv_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "APP_NAME")
	delete(env, "AUTH_SECRET")

	_, err := FromEnv(envMap(env))
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "APP_NAME") || !strings.Contains(err.Error(), "AUTH_SECRET") {
		t.Fatalf("expected both keys in error, got %v", err)
	}
}

func TestFromEnv_ShortSecret(t *testing.T) {
	env := baseEnv()
	env["AUTH_SECRET"] = "short"

	_, err := FromEnv(envMap(env))
	if !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected errInvalidEnv, got %v", err)
	}
}

func TestFromEnv_StubVerifierSkipsClientID(t *testing.T) {
	env := baseEnv()
	delete(env, "GOOGLE_CLIENT_ID")
	env["AUTH_STUB"] = "true"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !cfg.Auth.UseStubVerifier {
		t.Fatalf("expected stub verifier")
	}
}

func TestFromEnv_Durations(t *testing.T) {
	env := baseEnv()
	env["AUTH_TOKEN_TTL"] = "2h"
	env["REDIS_TTL"] = "30"
	env["DB_POOL_MAX_CONNS"] = "12"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Fatalf("unexpected redis ttl: %s", cfg.Redis.TTL)
	}
	if cfg.Database.PoolMaxConns != 12 {
		t.Fatalf("unexpected max conns: %d", cfg.Database.PoolMaxConns)
	}

	env["REDIS_TTL"] = "soon"
	if _, err := FromEnv(envMap(env)); !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected errInvalidEnv, got %v", err)
	}
}

func TestFromEnv_MemoryDriver(t *testing.T) {
	env := baseEnv()
	delete(env, "DB_NAME")
	delete(env, "DB_USER")
	env["DB_DRIVER"] = "Memory"

	cfg, err := FromEnv(envMap(env))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Fatalf("unexpected driver: %s", cfg.Database.Driver)
	}

	env["DB_DRIVER"] = "sqlite"
	env["DB_NAME"] = "jamco"
	env["DB_USER"] = "jamco"
	if _, err := FromEnv(envMap(env)); !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected errInvalidEnv, got %v", err)
	}
}
