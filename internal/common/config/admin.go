package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"kaliroot-admin/internal/domain/credentials"
)

const (
	DefaultSubscriptionDays = 30
	DefaultAppTitle         = "kaliroot"
)

// AdminConfig is the optional static configuration file that pre-fills
// credentials and allows unattended login.
type AdminConfig struct {
	credentials.Credentials `yaml:",inline"`

	AutoLogin        bool `yaml:"auto_login"`
	SubscriptionDays int  `yaml:"subscription_days"`
}

// DefaultAdminConfig is used when no file is present.
func DefaultAdminConfig() *AdminConfig {
	return &AdminConfig{
		Credentials: credentials.Credentials{
			TelegramAppTitle:  DefaultAppTitle,
			TelegramShortName: DefaultAppTitle,
		},
		SubscriptionDays: DefaultSubscriptionDays,
	}
}

// LoadAdminConfig reads the YAML file at path. A missing file yields the
// defaults without error.
func LoadAdminConfig(path string) (*AdminConfig, error) {
	cfg := DefaultAdminConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read admin config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse admin config %s: %w", path, err)
	}
	cfg.Credentials = cfg.Credentials.Trim()
	if cfg.SubscriptionDays <= 0 {
		cfg.SubscriptionDays = DefaultSubscriptionDays
	}
	return cfg, nil
}

// CanAutoLogin reports whether requests may fall back to the static
// credentials without an explicit login.
func (a *AdminConfig) CanAutoLogin() bool {
	return a != nil && a.AutoLogin && a.Credentials.HasBackend()
}

// Marshal renders the config as YAML.
func (a *AdminConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(a)
}

// WriteAdminConfig writes the config with owner-only permissions, it holds secrets.
func WriteAdminConfig(path string, a *AdminConfig) error {
	data, err := a.Marshal()
	if err != nil {
		return fmt.Errorf("marshal admin config: %w", err)
	}
	header := []byte("# KaliRoot admin configuration. Contains secrets, keep it out of version control.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("write admin config: %w", err)
	}
	return nil
}

// AdminConfigFromEnv builds the static config from the bot's .env values.
// The service key is preferred over the anon key.
func AdminConfigFromEnv(vars map[string]string) *AdminConfig {
	cfg := DefaultAdminConfig()
	cfg.AutoLogin = true

	key := vars["SUPABASE_SERVICE_KEY"]
	if key == "" {
		key = vars["SUPABASE_ANON_KEY"]
	}
	cfg.Credentials = credentials.Credentials{
		SupabaseURL:       vars["SUPABASE_URL"],
		SupabaseKey:       key,
		BotToken:          vars["TELEGRAM_BOT_TOKEN"],
		TelegramAPIID:     vars["TELEGRAM_API_ID"],
		TelegramAPIHash:   vars["TELEGRAM_API_HASH"],
		TelegramAppTitle:  vars["TELEGRAM_APP_TITLE"],
		TelegramShortName: vars["TELEGRAM_SHORT_NAME"],
	}.Trim()
	if cfg.TelegramAppTitle == "" {
		cfg.TelegramAppTitle = DefaultAppTitle
	}
	if cfg.TelegramShortName == "" {
		cfg.TelegramShortName = DefaultAppTitle
	}
	return cfg
}
