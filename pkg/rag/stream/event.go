// Package stream frames answer chunks as server-sent events and reads them back.
package stream

import (
	"errors"
	"fmt"

	"morning-pulse-be/pkg/store"
)

// Event is the JSON payload of one "data:" line. Exactly one of Text, Done or Error is meaningful.
type Event struct {
	Text     string         `json:"text,omitempty"`
	Done     bool           `json:"done,omitempty"`
	FullText string         `json:"fullText,omitempty"`
	Sources  []store.Source `json:"sources,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Result is the outcome of consuming one answer stream.
type Result struct {
	Text    string
	Sources []store.Source
	// Truncated is set when the stream ended without a done event.
	Truncated bool
}

var (
	ErrCorruptStream = errors.New("stream: corrupt event")
	ErrEmptyStream   = errors.New("stream: ended before any data")
)

// RemoteError is an error event sent by the server.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("stream: remote error: %s", e.Message)
}
