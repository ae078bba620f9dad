package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	BackendDriverREST     = "rest"
	BackendDriverPostgres = "postgres"

	// DefaultSessionSecret is only accepted with DEBUG=true.
	DefaultSessionSecret = "change-me"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"8080"`
		Origins         []string      `env:"ORIGINS" envSeparator:"," envDefault:"http://localhost:8080"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Backend struct {
		// rest talks to Supabase PostgREST with the operator's credentials,
		// postgres uses DATABASE_URL directly.
		Driver      string        `env:"BACKEND_DRIVER" envDefault:"rest"`
		DatabaseURL string        `env:"DATABASE_URL"`
		Timeout     time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
	}

	Session struct {
		Secret string        `env:"SESSION_SECRET" envDefault:"change-me"`
		Issuer string        `env:"SESSION_ISSUER" envDefault:"kaliroot-admin"`
		TTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	}

	Telegram struct {
		BotToken string        `env:"BOT_TOKEN"`
		APIURL   string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
		Timeout  time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s"`
		AdminIDs []string      `env:"ADMIN_IDS" envSeparator:","`
		// InitDataTTL is the max age of Mini App init data, 0 disables the check.
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	Broadcast struct {
		Delay  time.Duration `env:"BROADCAST_DELAY" envDefault:"50ms"`
		JobTTL time.Duration `env:"BROADCAST_JOB_TTL" envDefault:"24h"`
	}

	AuxAPI struct {
		URL     string        `env:"AUX_API_URL" envDefault:"http://localhost:8081"`
		Timeout time.Duration `env:"AUX_API_TIMEOUT" envDefault:"30s"`
	}

	StatsCacheTTL   time.Duration `env:"STATS_CACHE_TTL" envDefault:"15s"`
	AdminConfigFile string        `env:"ADMIN_CONFIG_FILE" envDefault:"admin-config.yaml"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional, production sets variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend.Driver {
	case BackendDriverREST:
	case BackendDriverPostgres:
		if c.Backend.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for BACKEND_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown BACKEND_DRIVER %q", c.Backend.Driver)
	}
	if _, err := c.AdminIDList(); err != nil {
		return err
	}
	return nil
}

// ValidateServer adds the checks that only matter when serving the API.
func (c *Config) ValidateServer() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.Session.Secret == DefaultSessionSecret && !c.Debug {
		return fmt.Errorf("SESSION_SECRET is still the default, set it or run with DEBUG=true")
	}
	return nil
}

// RedisAddr returns host:port of the redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// AdminIDList parses ADMIN_IDS into telegram user ids.
func (c *Config) AdminIDList() ([]int64, error) {
	ids := make([]int64, 0, len(c.Telegram.AdminIDs))
	for _, raw := range c.Telegram.AdminIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
