package models

// Row is a table row passed through with every column the backend returns.
type Row map[string]any

// ModuleCompletion is a row of user_modules.
type ModuleCompletion = Row

const DefaultBadgeIcon = "🏆"

// Badge is a row of badges. A missing or empty icon is shown as
// DefaultBadgeIcon.
type Badge = Row
