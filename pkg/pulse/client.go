// Package pulse is the Go client for the Morning Pulse ask endpoint.
package pulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/rag/stream"
	"morning-pulse-be/pkg/store"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultMaxTries = 3
	askPath         = "/api/ask"
)

type AskRequest struct {
	Question            string                     `json:"question"`
	NewsData            store.Corpus               `json:"newsData,omitempty"`
	ConversationHistory []conversation.WireMessage `json:"conversationHistory,omitempty"`
	Opinions            []store.Opinion            `json:"opinions,omitempty"`
	PreviousEntities    []string                   `json:"previousEntities,omitempty"`
	Stream              bool                       `json:"stream"`
	SessionID           string                     `json:"sessionId,omitempty"`
}

type AskResponse struct {
	Text    string         `json:"text"`
	Sources []store.Source `json:"sources"`
}

// HTTPError is a non-2xx answer from the server.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("pulse: http %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	maxTries        uint
	initialInterval time.Duration
	logger          *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds one whole call, stream included. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithMaxTries(n uint) Option {
	return func(c *Client) { c.maxTries = n }
}

func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.initialInterval = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         DefaultTimeout,
		maxTries:        DefaultMaxTries,
		initialInterval: 500 * time.Millisecond,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask posts a streaming question and hands every chunk to onChunk as it arrives.
func (c *Client) Ask(ctx context.Context, req AskRequest, onChunk func(string) error) (*stream.Result, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req.Stream = true
	resp, err := c.open(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	consumer := stream.Consumer{OnWarning: func(line string, err error) {
		c.logger.Debug("skipping partial stream line", zap.String("line", line), zap.Error(err))
	}}
	return consumer.Consume(ctx, resp.Body, onChunk)
}

// AskSync posts a non-streaming question and returns the whole answer.
func (c *Client) AskSync(ctx context.Context, req AskRequest) (*AskResponse, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req.Stream = false
	resp, err := c.open(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("pulse: decode response: %w", err)
	}
	return &res, nil
}

func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// open establishes the response, retrying network failures and 5xx answers.
func (c *Client) open(ctx context.Context, req AskRequest) (*http.Response, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.New("pulse: question is required")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("pulse: encode request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	attempt := 0
	return backoff.Retry(ctx, func() (*http.Response, error) {
		attempt++
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+askPath, bytes.NewReader(payload))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if req.Stream {
			httpReq.Header.Set("Accept", stream.ContentType)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			c.logger.Warn("ask request failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}
		if resp.StatusCode < 300 {
			return resp, nil
		}

		httpErr := readHTTPError(resp)
		if resp.StatusCode >= 500 {
			c.logger.Warn("ask request failed", zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			return nil, httpErr
		}
		return nil, backoff.Permanent(httpErr)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
	)
}

func readHTTPError(resp *http.Response) *HTTPError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &envelope) == nil {
		switch {
		case envelope.Message != "":
			msg = envelope.Message
		case envelope.Error != "":
			msg = envelope.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
