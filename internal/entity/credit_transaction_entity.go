package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionType string
type BalanceKind string

const (
	CreditTransactionSpend  CreditTransactionType = "spend"
	CreditTransactionGrant  CreditTransactionType = "grant"
	CreditTransactionRefund CreditTransactionType = "refund"

	BalanceCredits       BalanceKind = "credits"
	BalancePromptCredits BalanceKind = "prompt_credits"
)

// Column returns the users column holding this balance.
func (k BalanceKind) Column() string {
	if k == BalancePromptCredits {
		return "prompt_wizard_credits"
	}
	return "credits"
}

type CreditTransaction struct {
	Id              uuid.UUID
	UserId          string
	TransactionType CreditTransactionType
	BalanceKind     BalanceKind
	Amount          int
	BalanceAfter    int
	ServiceUsed     *string
	RelatedId       *string
	Notes           *string
	CreatedAt       time.Time
}
