package models

// Subscription is the subscription view of a usuarios row.
type Subscription struct {
	UserID                 int64   `json:"user_id"`
	FirstName              string  `json:"first_name"`
	Username               string  `json:"username"`
	SubscriptionStatus     string  `json:"subscription_status"`
	SubscriptionExpiryDate *string `json:"subscription_expiry_date"`
	NowpaymentsInvoiceID   *string `json:"nowpayments_invoice_id"`
	UpdatedAt              *string `json:"updated_at"`
}

type SubscriptionResponse struct {
	Subscription
	StatusClass string `json:"status_class"`
}

// Filter values accepted by the list endpoint.
const (
	FilterAll     = "all"
	FilterExpired = "expired"
)

type ActivateResponse struct {
	UserID    int64  `json:"user_id"`
	Status    string `json:"subscription_status"`
	ExpiresAt string `json:"subscription_expiry_date"`
	Days      int    `json:"days"`
}
