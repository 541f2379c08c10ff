package config

import (
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "config/app.yaml"

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	cfgPath := resolveConfigPath()
	if st, err := os.Stat(cfgPath); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigPath() string {
	if v := os.Getenv("HOTSPOT_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}

// applyEnvAliases accepts the bare env names that deployment tooling
// commonly sets, in addition to the HOTSPOT_-prefixed ones.
func applyEnvAliases(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	if v := getEnv("DATABASE_URL"); v != "" {
		cfg.DBURL = strings.TrimSpace(v)
	}
	if v := getEnv("REDIS_URL"); v != "" {
		cfg.RedisURL = strings.TrimSpace(v)
	}
	if v := getEnv("NATS_URL", "RABBITMQ_URL"); v != "" {
		cfg.NATSURL = strings.TrimSpace(v)
	}
	if v := getEnv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = strings.TrimSpace(v)
	}
	if v := getEnv("ENCRYPTION_KEY"); v != "" {
		cfg.EncryptionKey = strings.TrimSpace(v)
	}
	if v := getEnv("APP_ENV", "ENV"); v != "" {
		cfg.AppEnv = strings.TrimSpace(v)
	}
	if v := getEnv("PORT"); v != "" {
		cfg.ListenAddr = listenAddrWithPort(cfg.ListenAddr, v)
	}
}

func normalizeConfig(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	cfg.APIPrefix = strings.TrimSpace(cfg.APIPrefix)
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.NATSURL = strings.TrimSpace(cfg.NATSURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.EncryptionKey = strings.TrimSpace(cfg.EncryptionKey)
	cfg.Pepper = strings.TrimSpace(cfg.Pepper)
	cfg.Bootstrap.AdminUsername = strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminUsername))
	cfg.Bootstrap.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if !strings.HasPrefix(cfg.APIPrefix, "/") {
		cfg.APIPrefix = "/" + cfg.APIPrefix
	}
	cfg.APIPrefix = strings.TrimSuffix(cfg.APIPrefix, "/")
	if cfg.RBAC.ResyncSpec == "" {
		cfg.RBAC.ResyncSpec = "@every 1m"
	}
}

func listenAddrWithPort(addr, port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return addr
	}
	host := ""
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		host = addr[:idx]
	}
	return host + ":" + port
}

func getEnv(keys ...string) string {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}
