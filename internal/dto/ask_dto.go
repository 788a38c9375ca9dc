package dto

import (
	"time"

	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/store"
)

type AskRequest struct {
	Question            string                     `json:"question" validate:"required,max=2000"`
	NewsData            store.Corpus               `json:"newsData,omitempty"`
	ConversationHistory []conversation.WireMessage `json:"conversationHistory,omitempty" validate:"omitempty,dive"`
	Opinions            []store.Opinion            `json:"opinions,omitempty"`
	PreviousEntities    []string                   `json:"previousEntities,omitempty" validate:"max=50"`
	Stream              bool                       `json:"stream"`
	SessionId           string                     `json:"sessionId,omitempty" validate:"omitempty,max=128"`
}

type AskResponse struct {
	Text    string         `json:"text"`
	Sources []store.Source `json:"sources"`
}

// AskArchivedMessage is the payload published once an ask request finishes.
type AskArchivedMessage struct {
	SessionId     string         `json:"session_id"`
	Question      string         `json:"question"`
	Answer        string         `json:"answer"`
	Sources       []store.Source `json:"sources"`
	StoryIds      []string       `json:"story_ids"`
	Streamed      bool           `json:"streamed"`
	Truncated     bool           `json:"truncated"`
	Failed        bool           `json:"failed"`
	FailureReason string         `json:"failure_reason,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	AnsweredAt    time.Time      `json:"answered_at"`
}

type AskLogResponse struct {
	Id         string         `json:"id"`
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Sources    []store.Source `json:"sources"`
	Failed     bool           `json:"failed"`
	Truncated  bool           `json:"truncated"`
	DurationMs int64          `json:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}
