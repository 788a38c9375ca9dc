package model

import (
	"time"

	"github.com/google/uuid"
)

type Opinion struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Headline        string     `gorm:"type:varchar(500);not null"`
	SubHeadline     string     `gorm:"type:varchar(500)"`
	Body            string     `gorm:"type:text;not null"`
	AuthorName      string     `gorm:"type:varchar(255);not null"`
	AuthorTitle     string     `gorm:"type:varchar(255)"`
	AuthorEmail     string     `gorm:"type:varchar(255)"`
	Category        string     `gorm:"type:varchar(100)"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string     `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt     time.Time  `gorm:"not null"`
	PublishedAt     *time.Time `gorm:"index"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (Opinion) TableName() string {
	return "opinions"
}
