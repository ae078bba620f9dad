package models

import "encoding/json"

// Event types written by the bot.
const (
	EventUserCreated           = "user_created"
	EventAddCredits            = "add_credits"
	EventDeductCredit          = "deduct_credit"
	EventSubscriptionActivated = "subscription_activated"
	EventModuleCompleted       = "module_completed"
)

const DefaultIcon = "📝"

var icons = map[string]string{
	EventUserCreated:           "👤",
	EventAddCredits:            "💰",
	EventDeductCredit:          "💸",
	EventSubscriptionActivated: "💎",
	EventModuleCompleted:       "📚",
}

// Icon returns the icon shown next to an event type.
func Icon(eventType string) string {
	if icon, ok := icons[eventType]; ok {
		return icon
	}
	return DefaultIcon
}

// Entry is a row of audit_log.
type Entry struct {
	ID        int64           `json:"id"`
	UserID    *int64          `json:"user_id"`
	EventType string          `json:"event_type"`
	Details   json.RawMessage `json:"details,omitempty" swaggertype:"object"`
	CreatedAt string          `json:"created_at"`
}

type EntryResponse struct {
	Entry
	Icon string `json:"icon"`
}

func ToResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{Entry: e, Icon: Icon(e.EventType)}
	}
	return out
}
