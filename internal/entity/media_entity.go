package entity

import (
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

type Media struct {
	Id          uuid.UUID
	UserId      string
	Url         string
	ProviderUrl string
	Prompt      *string
	Source      string
	Model       string
	Kind        MediaKind
	Parameters  map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
