package entity

import (
	"time"

	"morning-pulse-be/pkg/store"

	"github.com/google/uuid"
)

// AskLog is the archived transcript of one answered question.
type AskLog struct {
	Id            uuid.UUID
	SessionId     string
	Question      string
	Answer        string
	Sources       []store.Source
	StoryIds      []string
	Streamed      bool
	Truncated     bool
	Failed        bool
	FailureReason string
	DurationMs    int64
	CreatedAt     time.Time
}
