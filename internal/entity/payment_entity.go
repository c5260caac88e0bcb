package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentProvider string
type PaymentStatus string

const (
	PaymentProviderStripe   PaymentProvider = "stripe"
	PaymentProviderMidtrans PaymentProvider = "midtrans"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	Id            uuid.UUID
	Provider      PaymentProvider
	SessionId     string
	UserId        string
	CustomerEmail string
	PackId        string
	PurchaseType  string
	Credits       int
	PromptCredits int
	AmountTotal   int64
	Currency      string
	Status        PaymentStatus
	Payload       []byte
	CreatedAt     time.Time
}
