package models

import (
	"time"

	"kaliroot-admin/internal/domain/credentials"
)

// Session is an authenticated operator with the credentials used at login.
type Session struct {
	ID          string                  `json:"id"`
	Credentials credentials.Credentials `json:"credentials"`
	CreatedAt   time.Time               `json:"created_at"`
	ExpiresAt   time.Time               `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// LoginRequest carries the login form. Empty fields fall back to the static
// admin configuration.
type LoginRequest struct {
	SupabaseURL string `json:"supabase_url"`
	SupabaseKey string `json:"supabase_key"`
	BotToken    string `json:"bot_token"`
	Remember    bool   `json:"remember"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	SessionID  string    `json:"session_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	UsersCount int64     `json:"users_count"`
	HasBot     bool      `json:"has_bot"`
	Remembered bool      `json:"remembered"`
}

// PrefillResponse is what the login form is filled with.
type PrefillResponse struct {
	Credentials credentials.Credentials `json:"credentials"`
	Remember    bool                    `json:"remember"`
	AutoLogin   bool                    `json:"auto_login"`
}
