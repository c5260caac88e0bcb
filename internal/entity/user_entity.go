package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                  uuid.UUID
	UserId              string
	Email               *string
	Credits             int
	PromptWizardCredits int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
