// Package config loads the process configuration from the environment and
// owns the persisted viewer settings file. Everything else in the codebase
// receives configuration through these types, never through os.Getenv.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Runtime environments, mirrored in the log formatter choice.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Change-feed strategies selectable via FEED_MODE.
const (
	FeedModePoll   = "poll"
	FeedModeNotify = "notify"
)

// Config is the full environment-derived configuration.
type Config struct {
	DBUser     string `env:"DB_USER,required=true"`
	DBPassword string `env:"DB_PASSWORD,required=true"`
	DBHost     string `env:"DB_HOST,required=true"`
	DBPort     int    `env:"DB_PORT,default=5432"`
	DBName     string `env:"DB_NAME,required=true"`
	DBSSLMode  string `env:"DB_SSLMODE,default=disable"`

	AppHost string `env:"APP_HOST,default=127.0.0.1"`
	AppPort int    `env:"APP_PORT,default=8000"`
	AppEnv  string `env:"APP_ENV,default=development"`

	LogLevel       string `env:"LOG_LEVEL,default=info"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	FeedMode      string        `env:"FEED_MODE,default=poll"`
	PollInterval  time.Duration `env:"POLL_INTERVAL,default=1s"`
	NotifyChannel string        `env:"NOTIFY_CHANNEL,default=danmaku_new_message"`
	StatsInterval time.Duration `env:"STATS_INTERVAL,default=30s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	ConfigFile          string `env:"CONFIG_FILE,default=config.json"`
	DefaultDanmakuSpeed int    `env:"DEFAULT_DANMAKU_SPEED,default=10"`
	MaxDanmakuCount     int    `env:"MAX_DANMAKU_COUNT,default=100"`
}

// Load reads .env if present (missing file is fine, mirroring the
// development workflow) and unmarshals the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.AppEnv != EnvDevelopment && cfg.AppEnv != EnvProduction {
		return Config{}, fmt.Errorf("invalid APP_ENV %q: must be %q or %q", cfg.AppEnv, EnvDevelopment, EnvProduction)
	}
	if cfg.FeedMode != FeedModePoll && cfg.FeedMode != FeedModeNotify {
		return Config{}, fmt.Errorf("invalid FEED_MODE %q: must be %q or %q", cfg.FeedMode, FeedModePoll, FeedModeNotify)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.StatsInterval <= 0 {
		return Config{}, fmt.Errorf("STATS_INTERVAL must be positive, got %s", cfg.StatsInterval)
	}

	return cfg, nil
}

// DSN renders the key/value connection string the gorm postgres driver
// expects.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// URL renders the postgres:// form used by the pgx notification listener.
func (c Config) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

// Origins splits ALLOWED_ORIGINS into its entries. Empty means no origin
// restriction.
func (c Config) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}
