package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	FileStore     FileStoreConfig     `yaml:"filestore"`
	CountryConfig CountryConfigConfig `yaml:"country_config"`
	Cleanup       CleanupConfig       `yaml:"cleanup"`
	CORS          CORSConfig          `yaml:"cors"`
	Log           LogConfig           `yaml:"log"`
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

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token verification settings. Tokens are issued by the
// user-management service; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"civil-registry"`
}

// FileStoreConfig holds settings for the attachment file store API.
type FileStoreConfig struct {
	BaseURL        string        `yaml:"base_url"         env:"FILESTORE_BASE_URL"         env-required:"true"`
	Timeout        time.Duration `yaml:"timeout"          env:"FILESTORE_TIMEOUT"          env-default:"15s"`
	RetryMaxElapse time.Duration `yaml:"retry_max_elapse" env:"FILESTORE_RETRY_MAX_ELAPSE" env-default:"30s"`
}

// CountryConfigConfig holds settings for the country configuration service
// that serves event form definitions.
type CountryConfigConfig struct {
	BaseURL  string        `yaml:"base_url"  env:"COUNTRY_CONFIG_BASE_URL"  env-required:"true"`
	Timeout  time.Duration `yaml:"timeout"   env:"COUNTRY_CONFIG_TIMEOUT"   env-default:"10s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"COUNTRY_CONFIG_CACHE_TTL" env-default:"5m"`
}

// CleanupConfig holds settings for the attachment garbage-collection worker.
type CleanupConfig struct {
	Schedule    string        `yaml:"schedule"     env:"CLEANUP_SCHEDULE"     env-default:"*/5 * * * *"`
	BatchSize   int           `yaml:"batch_size"   env:"CLEANUP_BATCH_SIZE"   env-default:"100"`
	MaxAttempts int           `yaml:"max_attempts" env:"CLEANUP_MAX_ATTEMPTS" env-default:"5"`
	StuckAfter  time.Duration `yaml:"stuck_after"  env:"CLEANUP_STUCK_AFTER"  env-default:"30m"`
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
