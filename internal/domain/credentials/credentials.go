package credentials

import (
	"strings"
)

// Storage keys of the persisted credential set.
const (
	KeySupabaseURL       = "supabase_url"
	KeySupabaseKey       = "supabase_key"
	KeyBotToken          = "bot_token"
	KeyTelegramAPIID     = "telegram_api_id"
	KeyTelegramAPIHash   = "telegram_api_hash"
	KeyTelegramAppTitle  = "telegram_app_title"
	KeyTelegramShortName = "telegram_short_name"
)

// Keys lists every persisted key in a stable order.
var Keys = []string{
	KeySupabaseURL,
	KeySupabaseKey,
	KeyBotToken,
	KeyTelegramAPIID,
	KeyTelegramAPIHash,
	KeyTelegramAppTitle,
	KeyTelegramShortName,
}

// Credentials is what an operator needs to reach the backend and the bot.
type Credentials struct {
	SupabaseURL       string `json:"supabase_url" yaml:"supabase_url"`
	SupabaseKey       string `json:"supabase_key" yaml:"supabase_key"`
	BotToken          string `json:"bot_token" yaml:"bot_token"`
	TelegramAPIID     string `json:"telegram_api_id" yaml:"telegram_api_id"`
	TelegramAPIHash   string `json:"telegram_api_hash" yaml:"telegram_api_hash"`
	TelegramAppTitle  string `json:"telegram_app_title" yaml:"telegram_app_title"`
	TelegramShortName string `json:"telegram_short_name" yaml:"telegram_short_name"`
}

// HasBackend reports whether URL and key are both set.
func (c Credentials) HasBackend() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func (c Credentials) IsZero() bool {
	return c == Credentials{}
}

// Trim strips surrounding whitespace from every field.
func (c Credentials) Trim() Credentials {
	return Credentials{
		SupabaseURL:       strings.TrimSpace(c.SupabaseURL),
		SupabaseKey:       strings.TrimSpace(c.SupabaseKey),
		BotToken:          strings.TrimSpace(c.BotToken),
		TelegramAPIID:     strings.TrimSpace(c.TelegramAPIID),
		TelegramAPIHash:   strings.TrimSpace(c.TelegramAPIHash),
		TelegramAppTitle:  strings.TrimSpace(c.TelegramAppTitle),
		TelegramShortName: strings.TrimSpace(c.TelegramShortName),
	}
}

// Overlay returns c with empty fields filled from fallback.
func (c Credentials) Overlay(fallback Credentials) Credentials {
	pick := func(v, fb string) string {
		if v != "" {
			return v
		}
		return fb
	}
	return Credentials{
		SupabaseURL:       pick(c.SupabaseURL, fallback.SupabaseURL),
		SupabaseKey:       pick(c.SupabaseKey, fallback.SupabaseKey),
		BotToken:          pick(c.BotToken, fallback.BotToken),
		TelegramAPIID:     pick(c.TelegramAPIID, fallback.TelegramAPIID),
		TelegramAPIHash:   pick(c.TelegramAPIHash, fallback.TelegramAPIHash),
		TelegramAppTitle:  pick(c.TelegramAppTitle, fallback.TelegramAppTitle),
		TelegramShortName: pick(c.TelegramShortName, fallback.TelegramShortName),
	}
}

// ToMap flattens the credentials into the storage keys, skipping empty values.
func (c Credentials) ToMap() map[string]string {
	m := make(map[string]string, len(Keys))
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(KeySupabaseURL, c.SupabaseURL)
	set(KeySupabaseKey, c.SupabaseKey)
	set(KeyBotToken, c.BotToken)
	set(KeyTelegramAPIID, c.TelegramAPIID)
	set(KeyTelegramAPIHash, c.TelegramAPIHash)
	set(KeyTelegramAppTitle, c.TelegramAppTitle)
	set(KeyTelegramShortName, c.TelegramShortName)
	return m
}

// FromMap is the inverse of ToMap. Unknown keys are ignored.
func FromMap(m map[string]string) Credentials {
	return Credentials{
		SupabaseURL:       m[KeySupabaseURL],
		SupabaseKey:       m[KeySupabaseKey],
		BotToken:          m[KeyBotToken],
		TelegramAPIID:     m[KeyTelegramAPIID],
		TelegramAPIHash:   m[KeyTelegramAPIHash],
		TelegramAppTitle:  m[KeyTelegramAppTitle],
		TelegramShortName: m[KeyTelegramShortName],
	}
}

// Masked hides secrets, keeping only the last characters visible.
func (c Credentials) Masked() Credentials {
	out := c
	out.SupabaseKey = mask(c.SupabaseKey)
	out.BotToken = mask(c.BotToken)
	out.TelegramAPIHash = mask(c.TelegramAPIHash)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "***"
	}
	return "***" + s[len(s)-6:]
}
