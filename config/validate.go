package config

import (
	"fmt"
	"strings"
)

const (
	defaultJWTSecret     = "kU0yR1fZ8mJ3qW6eT9vB2nX5cA7dH4gL"
	defaultEncryptionKey = "1f6c1f0e4b2d8a9c3e7f5a1b8d0c2e4f"
	defaultPepper        = "Qw8zL3pN6vC1xK4mR7tY0bJ5hF2dS9gU"
)

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if driver == "" {
		driver = "postgres"
	}
	if driver != "postgres" && driver != "pg" && driver != "sqlite" {
		return fmt.Errorf("unsupported db_driver: %s", cfg.DBDriver)
	}
	if (driver == "postgres" || driver == "pg") && strings.TrimSpace(cfg.DBURL) == "" {
		return fmt.Errorf("db_url must be set for postgres driver")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return fmt.Errorf("jwt_secret must be set via env")
	}
	if strings.TrimSpace(cfg.EncryptionKey) == "" {
		return fmt.Errorf("encryption_key must be set via env")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return fmt.Errorf("refresh_token_ttl must exceed access_token_ttl")
	}
	if cfg.IsProduction() {
		if isDefaultSecret(cfg.JWTSecret) || isDefaultSecret(cfg.EncryptionKey) || isDefaultSecret(cfg.Pepper) {
			return fmt.Errorf("default secrets are not allowed outside APP_ENV=dev")
		}
		if strings.TrimSpace(cfg.Bootstrap.AdminPassword) == "" {
			return fmt.Errorf("bootstrap.admin_password must be set outside APP_ENV=dev")
		}
	}
	return nil
}

func isDefaultSecret(val string) bool {
	switch val {
	case defaultJWTSecret, defaultEncryptionKey, defaultPepper:
		return true
	default:
		return false
	}
}
