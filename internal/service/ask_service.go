package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/memory"
	"morning-pulse-be/internal/tracer"
	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/rag/citation"
	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/rag/prompt"
	"morning-pulse-be/pkg/rag/retrieval"
	"morning-pulse-be/pkg/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrEmptyQuestion = errors.New("question is required")

type IAskService interface {
	// Ask answers one question. With onChunk set the model output is streamed
	// through it; the returned response always carries the full text.
	Ask(ctx context.Context, req *dto.AskRequest, onChunk llm.ChunkHandler) (*dto.AskResponse, error)
	ResetSession(sessionId string) bool
}

// CorpusSource supplies the stored corpus when a request brings none.
type CorpusSource interface {
	Corpus(ctx context.Context) (store.Corpus, error)
}

// OpinionSource supplies published opinions when a request brings none.
type OpinionSource interface {
	Published(ctx context.Context, limit int) ([]store.Opinion, error)
}

// Archiver records finished questions.
type Archiver interface {
	Publish(payload dto.AskArchivedMessage) error
}

type AskSettings struct {
	TopK        int
	Timeout     time.Duration
	Temperature float64
}

type askService struct {
	corpus   CorpusSource
	opinions OpinionSource
	provider llm.LLMProvider
	sessions *memory.SessionRepository
	archiver Archiver
	scorer   *retrieval.Scorer
	settings AskSettings
	logger   logger.ILogger
}

func NewAskService(
	corpus CorpusSource,
	opinions OpinionSource,
	provider llm.LLMProvider,
	sessions *memory.SessionRepository,
	archiver Archiver,
	settings AskSettings,
	logger logger.ILogger,
) IAskService {
	return &askService{
		corpus:   corpus,
		opinions: opinions,
		provider: provider,
		sessions: sessions,
		archiver: archiver,
		scorer:   retrieval.NewScorer(time.Now),
		settings: settings,
		logger:   logger,
	}
}

func (s *askService) Ask(ctx context.Context, req *dto.AskRequest, onChunk llm.ChunkHandler) (*dto.AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	ctx, span := tracer.Tracer("ask-service").Start(ctx, "ask")
	defer span.End()
	started := time.Now()

	var session *conversation.Session
	if req.SessionId != "" {
		session, _ = s.sessions.GetOrCreate(req.SessionId)
	}

	corpus, err := s.loadCorpus(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "corpus")
		return nil, err
	}
	opinions := s.loadOpinions(ctx, req)

	selected := retrieval.Select(s.scorer.Score(question, corpus), s.settings.TopK)
	span.SetAttributes(
		attribute.Int("ask.corpus_size", corpus.Size()),
		attribute.Int("ask.selected", len(selected)),
		attribute.Bool("ask.stream", onChunk != nil),
	)

	input := prompt.Input{
		Question: question,
		Stories:  selected,
		Opinions: opinions,
	}
	input.History, input.Entities, input.LastEntity = conversationContext(req, session)
	instruction := prompt.NewBuilder(input).Build()

	s.logger.Debug(constant.ModuleAsk, "Prompt assembled", map[string]interface{}{
		"session_id":    req.SessionId,
		"selected":      len(selected),
		"opinions":      len(opinions),
		"history":       len(input.History),
		"prompt_length": len(instruction),
	})

	text, err := s.generate(ctx, instruction, onChunk)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate")
		s.logger.Error(constant.ModuleAsk, "Model call failed", map[string]interface{}{
			"session_id": req.SessionId,
			"quota":      errors.Is(err, llm.ErrQuotaExceeded),
			"error":      err.Error(),
		})
		s.archive(req, question, text, nil, selected, onChunk != nil, err, started)
		return nil, err
	}

	sources := citedSources(text, selected)
	if session != nil {
		topics := make([]string, 0, len(sources))
		cited := make([]int, 0, len(sources))
		for _, src := range sources {
			topics = append(topics, src.Title)
			cited = append(cited, src.Index)
		}
		session.RecordExchange(question, text, conversation.Exchange{Topics: topics, CitedIndices: cited})
	}

	s.archive(req, question, text, sources, selected, onChunk != nil, nil, started)
	s.logger.Info(constant.ModuleAsk, "Question answered", map[string]interface{}{
		"session_id":  req.SessionId,
		"sources":     len(sources),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return &dto.AskResponse{Text: text, Sources: sources}, nil
}

func (s *askService) ResetSession(sessionId string) bool {
	return s.sessions.Delete(sessionId)
}

func (s *askService) loadCorpus(ctx context.Context, req *dto.AskRequest) (store.Corpus, error) {
	if req.NewsData.Size() > 0 {
		return req.NewsData, nil
	}
	return s.corpus.Corpus(ctx)
}

func (s *askService) loadOpinions(ctx context.Context, req *dto.AskRequest) []store.Opinion {
	if len(req.Opinions) > 0 {
		return req.Opinions
	}
	opinions, err := s.opinions.Published(ctx, constant.OpinionsDefaultLimit)
	if err != nil {
		// opinions enrich the answer; the question still gets one without them
		s.logger.Warn(constant.ModuleAsk, "Failed to load opinions", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return opinions
}

func (s *askService) generate(ctx context.Context, instruction string, onChunk llm.ChunkHandler) (string, error) {
	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	history := []llm.Message{{Role: llm.RoleUser, Content: instruction}}
	opts := []llm.Option{llm.WithTemperature(s.settings.Temperature)}

	var (
		text string
		err  error
	)
	if onChunk != nil {
		text, err = s.provider.Stream(ctx, history, onChunk, opts...)
	} else {
		text, err = s.provider.Chat(ctx, history, opts...)
	}
	if err != nil {
		return text, llm.ClassifyError(err)
	}
	return text, nil
}

func (s *askService) archive(req *dto.AskRequest, question, answer string, sources []store.Source, selected []store.ScoredStory, streamed bool, failure error, started time.Time) {
	if s.archiver == nil {
		return
	}

	ids := make([]string, 0, len(selected))
	for _, st := range selected {
		ids = append(ids, st.ID)
	}
	payload := dto.AskArchivedMessage{
		SessionId:  req.SessionId,
		Question:   question,
		Answer:     answer,
		Sources:    sources,
		StoryIds:   ids,
		Streamed:   streamed,
		DurationMs: time.Since(started).Milliseconds(),
		AnsweredAt: time.Now(),
	}
	if failure != nil {
		payload.Failed = true
		payload.FailureReason = failure.Error()
	}

	if err := s.archiver.Publish(payload); err != nil {
		s.logger.Warn(constant.ModuleAsk, "Failed to archive answer", map[string]interface{}{"error": err.Error()})
	}
}

// conversationContext prefers what the request carries. With a session, the
// handed-over state is seeded into it first, so later turns build on it.
func conversationContext(req *dto.AskRequest, session *conversation.Session) ([]conversation.Message, []string, string) {
	history := conversation.FromWire(req.ConversationHistory)
	entities := req.PreviousEntities

	if session == nil {
		var last string
		if n := len(entities); n > 0 {
			last = entities[n-1]
		}
		return history, entities, last
	}

	if len(history) > 0 || len(entities) > 0 {
		if len(history) == 0 {
			history = session.History()
		}
		if len(entities) == 0 {
			entities = session.Entities()
		}
		session.Seed(history, entities)
	}
	return session.History(), session.Entities(), session.Context().LastEntity
}

// citedSources lists the selected stories the answer cites, in citation order.
func citedSources(text string, selected []store.ScoredStory) []store.Source {
	sources := make([]store.Source, 0)
	for _, n := range citation.CitedIndices(text) {
		if n < 1 || n > len(selected) {
			continue
		}
		st := selected[n-1]
		sources = append(sources, store.Source{Title: st.Headline, URL: st.URL, Index: n})
	}
	return sources
}
