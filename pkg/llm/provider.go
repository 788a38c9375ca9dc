package llm

import (
	"context"
	"errors"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	options := &Options{Temperature: 0.3}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ChunkHandler receives streamed text in arrival order. Returning an error stops the stream.
type ChunkHandler func(chunk string) error

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Stream sends a chat history and hands each text chunk to onChunk as it
	// arrives. It returns the full accumulated text.
	Stream(ctx context.Context, history []Message, onChunk ChunkHandler, options ...Option) (string, error)
}

// ErrQuotaExceeded marks failures caused by the model's quota or rate limit.
var ErrQuotaExceeded = errors.New("model quota exceeded")

// User-facing replies for failed answers.
const (
	FallbackMessage = "I encountered an error while processing your question. Please try again."
	QuotaMessage    = "I'm currently experiencing high demand and can't answer right now. Please try again in a few minutes."
)

// IsQuotaMessage reports whether a provider error message describes a quota or rate limit.
func IsQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"quota", "resource_exhausted", "rate limit", "429", "too many requests", "high demand"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ClassifyError wraps err with ErrQuotaExceeded when it looks like a quota failure.
func ClassifyError(err error) error {
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		return err
	}
	if IsQuotaMessage(err.Error()) {
		return &quotaError{cause: err}
	}
	return err
}

type quotaError struct {
	cause error
}

func (e *quotaError) Error() string { return e.cause.Error() }

func (e *quotaError) Unwrap() []error { return []error{ErrQuotaExceeded, e.cause} }
