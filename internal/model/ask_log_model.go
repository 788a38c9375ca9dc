package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AskLog struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string                      `gorm:"type:varchar(64);index"`
	Question      string                      `gorm:"type:text;not null"`
	Answer        string                      `gorm:"type:text"`
	Sources       datatypes.JSON              `gorm:"type:jsonb"`
	StoryIds      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Streamed      bool                        `gorm:"not null;default:false"`
	Truncated     bool                        `gorm:"not null;default:false"`
	Failed        bool                        `gorm:"not null;default:false;index"`
	FailureReason string                      `gorm:"type:text"`
	DurationMs    int64
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (AskLog) TableName() string {
	return "ask_logs"
}
