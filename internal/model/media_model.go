package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Media struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId      string         `gorm:"type:varchar(255);not null;index"`
	Url         string         `gorm:"type:text;not null"`
	ProviderUrl string         `gorm:"type:text"`
	Prompt      *string        `gorm:"type:text"`
	Source      string         `gorm:"type:varchar(100);not null;index"`
	Model       string         `gorm:"type:varchar(255)"`
	Kind        string         `gorm:"type:varchar(20);not null;default:'image'"`
	Parameters  datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Media) TableName() string {
	return "media"
}
