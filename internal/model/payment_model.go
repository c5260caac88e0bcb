package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payment records a credit purchase. (provider, session_id) is the idempotency key.
type Payment struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Provider      string         `gorm:"type:varchar(20);not null;uniqueIndex:ux_payments_provider_session,priority:1"`
	SessionId     string         `gorm:"type:varchar(255);not null;uniqueIndex:ux_payments_provider_session,priority:2"`
	UserId        string         `gorm:"type:varchar(255);not null;index"`
	CustomerEmail string         `gorm:"type:varchar(255)"`
	PackId        string         `gorm:"type:varchar(50)"`
	PurchaseType  string         `gorm:"type:varchar(30);not null"`
	Credits       int            `gorm:"not null;default:0"`
	PromptCredits int            `gorm:"not null;default:0"`
	AmountTotal   int64          `gorm:"not null;default:0"`
	Currency      string         `gorm:"type:varchar(10)"`
	Status        string         `gorm:"type:varchar(20);not null"`
	Payload       datatypes.JSON `gorm:"type:json"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
