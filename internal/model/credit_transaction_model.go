package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransaction struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId          string    `gorm:"type:varchar(255);not null;index"`
	TransactionType string    `gorm:"type:varchar(20);not null"`
	BalanceKind     string    `gorm:"type:varchar(20);not null"`
	Amount          int       `gorm:"not null"`
	BalanceAfter    int       `gorm:"not null"`
	ServiceUsed     *string   `gorm:"type:text;index"`
	RelatedId       *string   `gorm:"type:varchar(255)"`
	Notes           *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime;not null"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
