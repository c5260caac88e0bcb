// FILE: internal/dto/credit_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type BalanceResponse struct {
	UserId              string `json:"user_id"`
	Credits             int    `json:"credits"`
	PromptWizardCredits int    `json:"prompt_wizard_credits"`
}

type CreditTransactionResponse struct {
	Id           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	BalanceKind  string    `json:"balance_kind"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balance_after"`
	ServiceUsed  string    `json:"service_used,omitempty"`
	RelatedId    string    `json:"related_id,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PageQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}
