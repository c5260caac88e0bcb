package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the balance record of an external identity. Profile data lives with the identity provider.
type User struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email               *string   `gorm:"type:varchar(255)"`
	Credits             int       `gorm:"not null;default:0"`
	PromptWizardCredits int       `gorm:"not null;default:0"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
