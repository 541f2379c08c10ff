package config

import "time"

type AppConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"HOTSPOT_LISTEN_ADDR" env-default:":8080"`
	APIPrefix  string `yaml:"api_prefix" env:"HOTSPOT_API_PREFIX" env-default:"/api/v1"`
	AppEnv     string `yaml:"app_env" env:"HOTSPOT_APP_ENV" env-default:"production"`

	DBDriver string `yaml:"db_driver" env:"HOTSPOT_DB_DRIVER"`
	DBURL    string `yaml:"db_url" env:"HOTSPOT_DB_URL"`
	DBPath   string `yaml:"db_path" env:"HOTSPOT_DB_PATH"`

	RedisURL string `yaml:"redis_url" env:"HOTSPOT_REDIS_URL"`
	NATSURL  string `yaml:"nats_url" env:"HOTSPOT_NATS_URL"`

	JWTSecret       string        `yaml:"jwt_secret" env:"HOTSPOT_JWT_SECRET"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"HOTSPOT_ACCESS_TOKEN_TTL" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"HOTSPOT_REFRESH_TOKEN_TTL" env-default:"168h"`

	EncryptionKey string `yaml:"encryption_key" env:"HOTSPOT_ENCRYPTION_KEY"`
	Pepper        string `yaml:"pepper" env:"HOTSPOT_PEPPER"`

	Bootstrap     BootstrapConfig     `yaml:"bootstrap"`
	RBAC          RBACConfig          `yaml:"rbac"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// BootstrapConfig describes the initial super-admin account seeded on first
// start. Seeding is skipped when the username already exists.
type BootstrapConfig struct {
	AdminUsername string `yaml:"admin_username" env:"HOTSPOT_ADMIN_USERNAME" env-default:"admin"`
	AdminEmail    string `yaml:"admin_email" env:"HOTSPOT_ADMIN_EMAIL" env-default:"admin@localhost"`
	AdminPassword string `yaml:"admin_password" env:"HOTSPOT_ADMIN_PASSWORD"`
}

type RBACConfig struct {
	// ResyncSpec is a cron expression controlling how often role/permission
	// assignments are reloaded from the database into the enforcer.
	ResyncSpec string `yaml:"resync_spec" env:"HOTSPOT_RBAC_RESYNC_SPEC" env-default:"@every 1m"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled" env:"HOTSPOT_METRICS_ENABLED" env-default:"true"`
}

func (c *AppConfig) IsProduction() bool {
	if c == nil {
		return true
	}
	return c.AppEnv != "dev" && c.AppEnv != "test"
}
