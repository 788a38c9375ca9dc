package entity

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	Id          uuid.UUID
	Headline    string
	Detail      string
	Category    string
	Source      string
	URL         string
	Image       string
	PublishedAt time.Time
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
