package models

// User is a row of usuarios. Nullable text columns decode to "".
// @Description Bot user record
type User struct {
	UserID                 int64   `json:"user_id" example:"123456789"`
	FirstName              string  `json:"first_name" example:"John"`
	LastName               string  `json:"last_name" example:"Doe"`
	Username               string  `json:"username" example:"johndoe"`
	CreditBalance          int64   `json:"credit_balance" example:"20"`
	SubscriptionStatus     string  `json:"subscription_status" example:"active" enums:"active,pending,inactive,expired"`
	SubscriptionExpiryDate *string `json:"subscription_expiry_date" example:"2024-04-15T14:30:00Z"`
	Level                  *int    `json:"level" example:"1"`
	XP                     int64   `json:"xp" example:"0"`
	NowpaymentsInvoiceID   *string `json:"nowpayments_invoice_id,omitempty"`
	CreatedAt              string  `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt              *string `json:"updated_at,omitempty"`
}

// UserResponse is a user as listed by the admin API.
type UserResponse struct {
	UserID                 int64   `json:"user_id"`
	FirstName              string  `json:"first_name"`
	LastName               string  `json:"last_name"`
	Username               string  `json:"username"`
	CreditBalance          int64   `json:"credit_balance"`
	SubscriptionStatus     string  `json:"subscription_status"`
	StatusClass            string  `json:"status_class"`
	SubscriptionExpiryDate *string `json:"subscription_expiry_date"`
	Level                  int     `json:"level"`
	XP                     int64   `json:"xp"`
	CreatedAt              string  `json:"created_at"`
}

// UserUpdate replaces the editable fields. Missing numbers take their
// defaults (credits 0, level 1, xp 0), the expiry is only written when set.
type UserUpdate struct {
	CreditBalance          *int64  `json:"credit_balance" example:"20"`
	SubscriptionStatus     string  `json:"subscription_status" example:"active"`
	Level                  *int    `json:"level" example:"1"`
	XP                     *int64  `json:"xp" example:"0"`
	SubscriptionExpiryDate *string `json:"subscription_expiry_date,omitempty" example:"2024-04-15T14:30:00Z"`
}

type SendMessageRequest struct {
	Message string `json:"message" example:"Hello"`
}

type ListParams struct {
	Search  string
	Page    int
	PerPage int
}
