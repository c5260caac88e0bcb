// FILE: internal/dto/prompt_dto.go
package dto

type PromptWizardRequest struct {
	Prompt string `json:"prompt" validate:"required,min=2,max=1000"`
	Style  string `json:"style" validate:"omitempty,max=64"`
}

type PromptWizardResponse struct {
	Original               string `json:"original"`
	Enhanced               string `json:"enhanced"`
	PromptCreditsDeducted  int    `json:"promptCreditsDeducted"`
	RemainingPromptCredits int    `json:"remainingPromptCredits"`
}
