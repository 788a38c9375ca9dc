package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/memory"
	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	answer  string
	chunks  []string
	err     error
	prompts []string
}

func (p *fakeProvider) record(history []llm.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, history[len(history)-1].Content)
}

func (p *fakeProvider) lastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompts[len(p.prompts)-1]
}

func (p *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.record(history)
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *fakeProvider) Stream(_ context.Context, history []llm.Message, onChunk llm.ChunkHandler, _ ...llm.Option) (string, error) {
	p.record(history)
	var sb strings.Builder
	for _, c := range p.chunks {
		if err := onChunk(c); err != nil {
			return sb.String(), err
		}
		sb.WriteString(c)
	}
	if p.err != nil {
		return sb.String(), p.err
	}
	return sb.String(), nil
}

type fakeCorpus struct {
	corpus store.Corpus
	err    error
	calls  int
}

func (f *fakeCorpus) Corpus(context.Context) (store.Corpus, error) {
	f.calls++
	return f.corpus, f.err
}

type fakeOpinions struct {
	opinions []store.Opinion
	err      error
}

func (f *fakeOpinions) Published(context.Context, int) ([]store.Opinion, error) {
	return f.opinions, f.err
}

type fakeArchiver struct {
	mu       sync.Mutex
	payloads []dto.AskArchivedMessage
}

func (f *fakeArchiver) Publish(p dto.AskArchivedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return nil
}

func storedCorpus() store.Corpus {
	return store.Corpus{
		"Local": {
			{ID: "L1", Headline: "Speed Limiters Proposed for Buses", Detail: "Transport ministry wants limiters.", Category: "Local", Source: "Herald", URL: "https://example.test/l1"},
			{ID: "L2", Headline: "Water Rationing Extended", Detail: "Dam levels drop.", Category: "Local", Source: "NewsDay"},
		},
		"Business": {
			{ID: "B1", Headline: "Fuel Importers Fit Speed Governors", Detail: "Trucking firms install limiters.", Category: "Business", Source: "FinX"},
		},
	}
}

type askFixture struct {
	svc      IAskService
	provider *fakeProvider
	corpus   *fakeCorpus
	archiver *fakeArchiver
	sessions *memory.SessionRepository
}

func newAskFixture(provider *fakeProvider) *askFixture {
	f := &askFixture{
		provider: provider,
		corpus:   &fakeCorpus{corpus: storedCorpus()},
		archiver: &fakeArchiver{},
		sessions: memory.NewSessionRepository(time.Minute, nil),
	}
	f.svc = NewAskService(
		f.corpus,
		&fakeOpinions{opinions: []store.Opinion{{ID: "o1", Headline: "Why limiters matter", Body: "Because.", AuthorName: "A. Writer", IsPublished: true}}},
		provider,
		f.sessions,
		f.archiver,
		AskSettings{TopK: 10, Timeout: time.Second, Temperature: 0.3},
		logger.NewNopLogger(),
	)
	return f
}

func TestAskService_EmptyQuestion(t *testing.T) {
	f := newAskFixture(&fakeProvider{})
	_, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "   "}, nil)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, f.provider.prompts)
}

func TestAskService_UsesStoredCorpusAndCitesSources(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "Buses will get limiters [1], and fuel trucks too [2]. See also [9]."})

	res, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "speed limiters"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.corpus.calls)
	prompt := f.provider.lastPrompt()
	assert.Contains(t, prompt, "[1] Speed Limiters Proposed for Buses")
	assert.Contains(t, prompt, "Why limiters matter")
	assert.Contains(t, prompt, "speed limiters")

	require.Len(t, res.Sources, 2)
	assert.Equal(t, store.Source{Title: "Speed Limiters Proposed for Buses", URL: "https://example.test/l1", Index: 1}, res.Sources[0])
	assert.Equal(t, 2, res.Sources[1].Index)

	require.Len(t, f.archiver.payloads, 1)
	archived := f.archiver.payloads[0]
	assert.False(t, archived.Failed)
	assert.False(t, archived.Streamed)
	assert.ElementsMatch(t, []string{"L1", "B1"}, archived.StoryIds)
}

func TestAskService_RequestCorpusWins(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "ok"})
	req := &dto.AskRequest{
		Question: "mining rally",
		NewsData: store.Corpus{"Markets": {{ID: "M1", Headline: "Mining rally lifts index", Category: "Markets"}}},
	}

	_, err := f.svc.Ask(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Zero(t, f.corpus.calls)
	assert.Contains(t, f.provider.lastPrompt(), "Mining rally lifts index")
}

func TestAskService_StreamsChunks(t *testing.T) {
	f := newAskFixture(&fakeProvider{chunks: []string{"Limiters ", "are coming [1]."}})

	var got []string
	res, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "speed limiters", Stream: true}, func(c string) error {
		got = append(got, c)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Limiters ", "are coming [1]."}, got)
	assert.Equal(t, "Limiters are coming [1].", res.Text)
	assert.True(t, f.archiver.payloads[0].Streamed)
}

func TestAskService_QuotaErrorIsClassified(t *testing.T) {
	f := newAskFixture(&fakeProvider{err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")})

	_, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "speed limiters"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrQuotaExceeded)

	require.Len(t, f.archiver.payloads, 1)
	assert.True(t, f.archiver.payloads[0].Failed)
}

func TestAskService_CorpusFailure(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "ok"})
	f.corpus.err = errors.New("db down")

	_, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "speed limiters"}, nil)
	assert.EqualError(t, err, "db down")
	assert.Empty(t, f.provider.prompts)
}

func TestAskService_SessionCarriesContext(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "Officials at Transport Ministry proposed limiters [1]."})

	_, err := f.svc.Ask(context.Background(), &dto.AskRequest{Question: "speed limiters", SessionId: "s-1"}, nil)
	require.NoError(t, err)

	session, ok := f.sessions.Get("s-1")
	require.True(t, ok)
	assert.Len(t, session.History(), 2)
	assert.Equal(t, "Transport Ministry", session.Context().LastEntity)

	f.provider.answer = "They did [1]."
	_, err = f.svc.Ask(context.Background(), &dto.AskRequest{Question: "what did they propose for buses", SessionId: "s-1"}, nil)
	require.NoError(t, err)

	prompt := f.provider.lastPrompt()
	assert.Contains(t, prompt, "User: speed limiters")
	assert.Contains(t, prompt, "Transport Ministry")
	assert.Len(t, session.History(), 4)

	assert.True(t, f.svc.ResetSession("s-1"))
	assert.False(t, f.svc.ResetSession("s-1"))
}

func TestAskService_RequestHistoryOverridesSession(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "ok"})
	req := &dto.AskRequest{
		Question: "speed limiters",
		ConversationHistory: []conversation.WireMessage{
			{Role: "user", Parts: []conversation.WirePart{{Text: "earlier question"}}},
			{Role: "model", Parts: []conversation.WirePart{{Text: "earlier answer"}}},
		},
		PreviousEntities: []string{"Harare City"},
	}

	_, err := f.svc.Ask(context.Background(), req, nil)
	require.NoError(t, err)
	prompt := f.provider.lastPrompt()
	assert.Contains(t, prompt, "earlier question")
	assert.Contains(t, prompt, "Harare City")
}

func TestAskService_RequestStateSeedsSession(t *testing.T) {
	f := newAskFixture(&fakeProvider{answer: "ok"})
	req := &dto.AskRequest{
		Question:  "speed limiters",
		SessionId: "s-2",
		ConversationHistory: []conversation.WireMessage{
			{Role: "user", Parts: []conversation.WirePart{{Text: "earlier question"}}},
			{Role: "model", Parts: []conversation.WirePart{{Text: "earlier answer"}}},
		},
		PreviousEntities: []string{"Harare City"},
	}

	_, err := f.svc.Ask(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Contains(t, f.provider.lastPrompt(), "earlier question")

	session, ok := f.sessions.Get("s-2")
	require.True(t, ok)
	history := session.History()
	require.Len(t, history, 4)
	assert.Equal(t, "earlier question", history[0].Content)
	assert.Contains(t, session.Entities(), "Harare City")

	_, err = f.svc.Ask(context.Background(), &dto.AskRequest{Question: "what next for buses", SessionId: "s-2"}, nil)
	require.NoError(t, err)
	prompt := f.provider.lastPrompt()
	assert.Contains(t, prompt, "earlier question")
	assert.Contains(t, prompt, "Harare City")
}
