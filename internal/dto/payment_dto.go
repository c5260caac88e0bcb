// FILE: internal/dto/payment_dto.go
package dto

type CreditPackResponse struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	Credits       int    `json:"credits"`
	PromptCredits int    `json:"prompt_credits"`
}

type CheckoutRequest struct {
	PackId string `json:"pack_id" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type CheckoutResponse struct {
	SessionId   string `json:"session_id"`
	RedirectUrl string `json:"redirect_url"`
}

// MidtransNotificationRequest is the Snap HTTP notification body.
type MidtransNotificationRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
}

// WebhookResult reports what a webhook delivery did.
type WebhookResult struct {
	Handled   bool   `json:"handled"`
	Duplicate bool   `json:"duplicate"`
	EventType string `json:"event_type"`
}
