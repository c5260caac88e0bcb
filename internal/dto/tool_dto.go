// FILE: internal/dto/tool_dto.go
package dto

// GenerateRequest is the union of every tool's fields. Each tool declares which ones it needs.
type GenerateRequest struct {
	Prompt         string   `json:"prompt" validate:"omitempty,max=2000"`
	NegativePrompt string   `json:"negativePrompt" validate:"omitempty,max=1000"`
	ImageUrl       string   `json:"imageUrl" validate:"omitempty,url"`
	AspectRatio    string   `json:"aspectRatio" validate:"omitempty,oneof=1:1 16:9 9:16 4:3 3:4 3:2 2:3"`
	Style          string   `json:"style" validate:"omitempty,max=64"`
	NumSteps       *int     `json:"numSteps" validate:"omitempty,min=1,max=100"`
	Guidance       *float64 `json:"guidance" validate:"omitempty,min=0,max=30"`
	Seed           *int64   `json:"seed"`
	Scale          *int     `json:"scale" validate:"omitempty,min=1,max=8"`
	Duration       *int     `json:"duration" validate:"omitempty,min=1,max=20"`
}

// GenerateResponse is returned by POST /api/tools/:slug.
type GenerateResponse struct {
	ResultUrl        string `json:"resultUrl"`
	Prompt           string `json:"prompt"`
	Model            string `json:"model"`
	CreditsDeducted  int    `json:"creditsDeducted"`
	MediaId          string `json:"mediaId,omitempty"`
	RemainingCredits int    `json:"remainingCredits"`
}

type ToolResponse struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Kind          string   `json:"kind"`
	Cost          int      `json:"cost"`
	RequiredInput []string `json:"requiredInput"`
}
