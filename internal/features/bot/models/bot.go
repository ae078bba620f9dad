package models

import "kaliroot-admin/internal/platform/telegram"

type Status struct {
	Bot     *telegram.User        `json:"bot"`
	Webhook *telegram.WebhookInfo `json:"webhook"`
}

// ChatInfo is getChat plus the member count when the bot may read it.
type ChatInfo struct {
	Chat        *telegram.Chat `json:"chat"`
	MemberCount *int           `json:"member_count,omitempty"`
}

type SendRequest struct {
	// ChatID is a numeric id or an @username.
	ChatID    string `json:"chat_id" binding:"required"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}
