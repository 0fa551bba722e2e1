package config

import "time"

// Provider modes selecting where translation resources are loaded from.
const (
	ProviderModeRest     = "rest"
	ProviderModePostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Env       string          `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Supabase  SupabaseConfig  `yaml:"supabase"`
	Provider  ProviderConfig  `yaml:"provider"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Assets    AssetsConfig    `yaml:"assets"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. The DSN is only
// required when the postgres provider mode or analytics is in use.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SupabaseConfig holds Supabase project settings for the REST resource
// provider and the storage asset proxy.
type SupabaseConfig struct {
	URL            string        `yaml:"url"              env:"SUPABASE_URL"`
	ServiceRoleKey string        `yaml:"service_role_key" env:"SUPABASE_SERVICE_ROLE_KEY"`
	AnonKey        string        `yaml:"anon_key"         env:"SUPABASE_ANON_KEY"`
	Bucket         string        `yaml:"bucket"           env:"SUPABASE_BUCKET"    env-default:"web"`
	CacheTTL       time.Duration `yaml:"cache_ttl"        env:"SUPABASE_CACHE_TTL" env-default:"5m"`
}

// APIKey returns the key used for Supabase calls: the service-role key when
// present, otherwise the anon key.
func (c SupabaseConfig) APIKey() string {
	if c.ServiceRoleKey != "" {
		return c.ServiceRoleKey
	}
	return c.AnonKey
}

// ProviderConfig selects the resource provider implementation.
type ProviderConfig struct {
	Mode string `yaml:"mode" env:"PROVIDER_MODE" env-default:"rest"`
}

// AnalyticsConfig holds missing-word collection settings. Collection needs a
// database; it is skipped at startup when no DSN is configured.
type AnalyticsConfig struct {
	Enabled   bool `yaml:"enabled"    env:"ANALYTICS_ENABLED"    env-default:"true"`
	QueueSize int  `yaml:"queue_size" env:"ANALYTICS_QUEUE_SIZE" env-default:"256"`
}

// AssetsConfig holds static-asset proxy settings.
type AssetsConfig struct {
	Enabled      bool `yaml:"enabled"       env:"ASSETS_ENABLED"       env-default:"true"`
	CacheEntries int  `yaml:"cache_entries" env:"ASSETS_CACHE_ENTRIES" env-default:"256"`
}

// AuthConfig holds admin access settings.
type AuthConfig struct {
	// AdminTokenHash is the bcrypt hash of the admin bearer token. Empty
	// disables the admin endpoints.
	AdminTokenHash string `yaml:"admin_token_hash" env:"AUTH_ADMIN_TOKEN_HASH"`
}

// RateLimitConfig holds per-IP rate limit settings.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"          env-default:"true"`
	PerMinute       int           `yaml:"per_minute"       env:"RATE_LIMIT_PER_MINUTE"       env-default:"120"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
