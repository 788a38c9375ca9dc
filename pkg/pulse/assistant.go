package pulse

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/rag/citation"
	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/rag/stream"
	"morning-pulse-be/pkg/store"

	"go.uber.org/zap"
)

// Asker is the part of Client the Assistant needs.
type Asker interface {
	Ask(ctx context.Context, req AskRequest, onChunk func(string) error) (*stream.Result, error)
}

// Reply is one assistant turn ready for display.
type Reply struct {
	Formatted citation.Formatted
	Sources   []store.Source
	Truncated bool
	// Failed is set when the text is a fallback message instead of an answer.
	Failed bool
}

// Assistant owns one conversation and sends each question with its history.
type Assistant struct {
	client  Asker
	session *conversation.Session
	logger  *zap.Logger

	Corpus   store.Corpus
	Opinions []store.Opinion
}

func NewAssistant(client Asker, session *conversation.Session, logger *zap.Logger) *Assistant {
	if session == nil {
		session = conversation.NewSession(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{client: client, session: session, logger: logger}
}

func (a *Assistant) Session() *conversation.Session {
	return a.session
}

// Ask returns nil for an empty question. Failures never surface as errors: the
// reply carries a fallback message and the cause is logged.
func (a *Assistant) Ask(ctx context.Context, question string, onChunk func(string) error) *Reply {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	sctx := a.session.Context()
	req := AskRequest{
		Question:            question,
		NewsData:            a.Corpus,
		ConversationHistory: a.session.WireHistory(),
		Opinions:            a.Opinions,
		PreviousEntities:    sctx.Entities,
	}

	res, err := a.client.Ask(ctx, req, onChunk)
	if err != nil {
		a.logger.Error("ask failed", zap.String("question", question), zap.Error(err))
		msg := llm.FallbackMessage
		if IsQuotaError(err) {
			msg = llm.QuotaMessage
		}
		return &Reply{Formatted: citation.Formatted{Text: msg, Citations: map[int]citation.Citation{}}, Failed: true}
	}

	formatted := citation.Format(res.Text, res.Sources)
	a.session.RecordExchange(question, res.Text, conversation.Exchange{
		Topics:       topicsOf(res.Sources),
		CitedIndices: formatted.Order,
	})
	return &Reply{Formatted: formatted, Sources: res.Sources, Truncated: res.Truncated}
}

// Reset clears history and entity context.
func (a *Assistant) Reset() {
	a.session.Reset()
}

// IsQuotaError reports whether err means the model is rate limited or out of quota.
func IsQuotaError(err error) bool {
	if errors.Is(err, llm.ErrQuotaExceeded) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || llm.IsQuotaMessage(httpErr.Message)
	}
	var remote *stream.RemoteError
	if errors.As(err, &remote) {
		return llm.IsQuotaMessage(remote.Message)
	}
	return false
}

func topicsOf(sources []store.Source) []string {
	var topics []string
	for _, s := range sources {
		if s.Title != "" {
			topics = append(topics, s.Title)
		}
	}
	return topics
}
