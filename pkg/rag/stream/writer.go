package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"morning-pulse-be/pkg/store"
)

const ContentType = "text/event-stream"

// Headers are set on every SSE response.
var Headers = map[string]string{
	"Content-Type":      ContentType,
	"Cache-Control":     "no-cache",
	"Connection":        "keep-alive",
	"X-Accel-Buffering": "no",
}

type errFlusher interface {
	Flush() error
}

type plainFlusher interface {
	Flush()
}

// Writer emits events and flushes after each one. Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Chunk(text string) error {
	return w.send(Event{Text: text})
}

func (w *Writer) Done(fullText string, sources []store.Source) error {
	return w.send(Event{Done: true, FullText: fullText, Sources: sources})
}

func (w *Writer) Error(message string) error {
	return w.send(Event{Error: message})
}

// Heartbeat writes an SSE comment to keep idle proxies from closing the connection.
func (w *Writer) Heartbeat() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, ": heartbeat\n\n"); err != nil {
		return err
	}
	return w.flush()
}

func (w *Writer) send(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("stream: encode event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.flush()
}

func (w *Writer) flush() error {
	switch f := w.w.(type) {
	case errFlusher:
		return f.Flush()
	case plainFlusher:
		f.Flush()
	}
	return nil
}
