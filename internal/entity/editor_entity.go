package entity

import (
	"time"

	"github.com/google/uuid"
)

type Editor struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
