// FILE: internal/dto/admin_dto.go
package dto

import "time"

type AdminUserResponse struct {
	UserId              string    `json:"user_id"`
	Email               string    `json:"email,omitempty"`
	Credits             int       `json:"credits"`
	PromptWizardCredits int       `json:"prompt_wizard_credits"`
	CreatedAt           time.Time `json:"created_at"`
}

type AdminUserQuery struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Q     string `query:"q"`
}

type GrantCreditsRequest struct {
	Credits       int    `json:"credits" validate:"min=0,max=100000"`
	PromptCredits int    `json:"prompt_credits" validate:"min=0,max=100000"`
	Reason        string `json:"reason" validate:"omitempty,max=255"`
}

type CatalogRefreshResponse struct {
	Models      int       `json:"models"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type ResolveResponse struct {
	Slug       string `json:"slug"`
	Identifier string `json:"identifier"`
	Confidence int    `json:"confidence"`
	Source     string `json:"source"`
}

type LogListResponse struct {
	Id        string `json:"id"` // MD5 of the log line, not a UUID
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
