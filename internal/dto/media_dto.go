// FILE: internal/dto/media_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type MediaResponse struct {
	Id         uuid.UUID              `json:"id"`
	Url        string                 `json:"url"`
	Prompt     string                 `json:"prompt,omitempty"`
	Source     string                 `json:"source"`
	Model      string                 `json:"model"`
	Kind       string                 `json:"kind"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type MediaListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Kind   string `query:"kind" validate:"omitempty,oneof=image video"`
	Source string `query:"source"`
}
