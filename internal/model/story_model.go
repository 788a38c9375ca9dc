package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Story struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Headline    string         `gorm:"type:varchar(500);not null"`
	Detail      string         `gorm:"type:text"`
	Category    string         `gorm:"type:varchar(100);not null;index"`
	Source      string         `gorm:"type:varchar(255)"`
	URL         string         `gorm:"type:text"`
	Image       string         `gorm:"type:text"`
	PublishedAt time.Time      `gorm:"not null;index"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Story) TableName() string {
	return "stories"
}
