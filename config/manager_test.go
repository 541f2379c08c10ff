package config

import "testing"

func TestNormalizeAPIPrefix(t *testing.T) {
	cfg := &AppConfig{APIPrefix: "api/v2/"}
	normalizeConfig(cfg)
	if cfg.APIPrefix != "/api/v2" {
		t.Fatalf("expected /api/v2, got %q", cfg.APIPrefix)
	}

	cfg = &AppConfig{}
	normalizeConfig(cfg)
	if cfg.APIPrefix != "/api/v1" {
		t.Fatalf("expected default /api/v1, got %q", cfg.APIPrefix)
	}
}

func TestListenAddrWithPort(t *testing.T) {
	if got := listenAddrWithPort(":8080", "9090"); got != ":9090" {
		t.Fatalf("expected :9090, got %q", got)
	}
	if got := listenAddrWithPort("0.0.0.0:8080", "3000"); got != "0.0.0.0:3000" {
		t.Fatalf("expected 0.0.0.0:3000, got %q", got)
	}
	if got := listenAddrWithPort(":8080", ""); got != ":8080" {
		t.Fatalf("expected unchanged addr, got %q", got)
	}
}

func TestEnvAliases(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/hotspot")
	t.Setenv("JWT_SECRET", "alias-secret")
	cfg := &AppConfig{}
	applyEnvAliases(cfg)
	if cfg.DBURL != "postgres://db/hotspot" {
		t.Fatalf("DATABASE_URL alias not applied: %q", cfg.DBURL)
	}
	if cfg.JWTSecret != "alias-secret" {
		t.Fatalf("JWT_SECRET alias not applied: %q", cfg.JWTSecret)
	}
}
