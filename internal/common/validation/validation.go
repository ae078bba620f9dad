package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Bot API limit for a single text message.
const MaxMessageLength = 4096

// Subscription statuses as stored in usuarios.subscription_status.
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// Broadcast segments.
const (
	SegmentAll     = "all"
	SegmentPremium = "premium"
	SegmentFree    = "free"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ]{6,20}$`)

// ValidateRequired reports an empty (after trimming) field.
func ValidateRequired(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ExtractDriveID accepts either a bare id or a share link
// (…/file/d/<id>/view or …?id=<id>) and returns the id.
func ExtractDriveID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "/file/d/"); i >= 0 {
		rest := s[i+len("/file/d/"):]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	if i := strings.Index(s, "id="); i >= 0 && strings.Contains(s, "drive.google.com") {
		rest := s[i+len("id="):]
		if j := strings.IndexAny(rest, "&#"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return s
}

// ValidateMessage checks a text message before it is sent.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len([]rune(text)) > MaxMessageLength {
		return fmt.Errorf("message cannot exceed %d characters", MaxMessageLength)
	}
	return nil
}

func ValidateSegment(segment string) error {
	if !IsValidSegment(segment) {
		return fmt.Errorf("invalid segment %q, expected all, premium or free", segment)
	}
	return nil
}

func IsValidSegment(segment string) bool {
	switch segment {
	case SegmentAll, SegmentPremium, SegmentFree:
		return true
	}
	return false
}

func IsValidSubscriptionStatus(status string) bool {
	switch status {
	case StatusActive, StatusPending, StatusInactive, StatusExpired:
		return true
	}
	return false
}

// StatusClass normalises a stored status for display. Unknown or empty
// values are shown as inactive.
func StatusClass(status string) string {
	if IsValidSubscriptionStatus(status) {
		return status
	}
	return StatusInactive
}

// ValidateSubscriptionFilter accepts a status or "all"/"expired".
func ValidateSubscriptionFilter(filter string) error {
	if filter == "" || filter == "all" || IsValidSubscriptionStatus(filter) {
		return nil
	}
	return fmt.Errorf("invalid subscription filter %q", filter)
}

func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone is required")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone %q is not valid", phone)
	}
	return nil
}

// ValidateChatRef accepts a numeric chat id or an @username.
func ValidateChatRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("chat id is required")
	}
	if strings.HasPrefix(ref, "@") {
		if len(ref) < 2 {
			return fmt.Errorf("chat username is empty")
		}
		return nil
	}
	for i, r := range ref {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return fmt.Errorf("chat id %q must be numeric or start with @", ref)
		}
	}
	return nil
}
