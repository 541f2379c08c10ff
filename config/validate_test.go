package config

import (
	"testing"
	"time"
)

func validBase() *AppConfig {
	return &AppConfig{
		DBDriver:        "postgres",
		DBURL:           "postgres://localhost/hotspot",
		AppEnv:          "dev",
		JWTSecret:       "test-jwt-secret",
		EncryptionKey:   "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := validBase()
	cfg.JWTSecret = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing jwt secret")
	}
}

func TestValidateRequiresEncryptionKey(t *testing.T) {
	cfg := validBase()
	cfg.EncryptionKey = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing encryption key")
	}
}

func TestValidateRejectsDefaultSecretsInProd(t *testing.T) {
	cfg := validBase()
	cfg.AppEnv = "production"
	cfg.JWTSecret = defaultJWTSecret
	cfg.Bootstrap.AdminPassword = "seed-password"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for default secrets in prod")
	}
}

func TestValidateRejectsRefreshShorterThanAccess(t *testing.T) {
	cfg := validBase()
	cfg.RefreshTokenTTL = time.Minute
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for refresh ttl below access ttl")
	}
}

func TestValidateAllowsDevDefaults(t *testing.T) {
	cfg := validBase()
	cfg.JWTSecret = defaultJWTSecret
	cfg.EncryptionKey = defaultEncryptionKey
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error for dev defaults: %v", err)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := validBase()
	cfg.DBDriver = "oracle"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
