package pulse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"morning-pulse-be/pkg/llm"
	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/rag/stream"
	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	requests []AskRequest
	result   *stream.Result
	err      error
}

func (f *fakeAsker) Ask(_ context.Context, req AskRequest, onChunk func(string) error) (*stream.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if onChunk != nil {
		_ = onChunk(f.result.Text)
	}
	return f.result, nil
}

func TestAssistant_EmptyQuestionIsNoop(t *testing.T) {
	fake := &fakeAsker{}
	a := NewAssistant(fake, nil, nil)

	assert.Nil(t, a.Ask(context.Background(), "   ", nil))
	assert.Empty(t, fake.requests)
}

func TestAssistant_RecordsExchange(t *testing.T) {
	fake := &fakeAsker{result: &stream.Result{
		Text:    "Officials at Transport Ministry proposed limiters [1].",
		Sources: []store.Source{{Title: "Speed Limiters Proposed for Buses", Index: 1}},
	}}
	a := NewAssistant(fake, nil, nil)

	reply := a.Ask(context.Background(), "speed limiters", nil)
	require.NotNil(t, reply)
	assert.False(t, reply.Failed)
	assert.Equal(t, "Officials at Transport Ministry proposed limiters {{cite:1}}.", reply.Formatted.Text)

	ctx := a.Session().Context()
	assert.Equal(t, []string{"Transport Ministry"}, ctx.Entities)
	assert.Equal(t, []int{1}, ctx.ArticleIndices)
	assert.Len(t, a.Session().History(), 2)

	a.Ask(context.Background(), "who proposed it?", nil)
	require.Len(t, fake.requests, 2)
	second := fake.requests[1]
	require.Len(t, second.ConversationHistory, 2)
	assert.Equal(t, conversation.RoleModel, second.ConversationHistory[1].Role)
	assert.Equal(t, []string{"Transport Ministry"}, second.PreviousEntities)
}

func TestAssistant_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"generic", errors.New("connection refused"), llm.FallbackMessage},
		{"http 429", &HTTPError{StatusCode: 429, Message: "slow down"}, llm.QuotaMessage},
		{"remote quota", &stream.RemoteError{Message: "RESOURCE_EXHAUSTED"}, llm.QuotaMessage},
		{"wrapped quota", fmt.Errorf("call: %w", llm.ErrQuotaExceeded), llm.QuotaMessage},
		{"server error", &HTTPError{StatusCode: 500, Message: "boom"}, llm.FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssistant(&fakeAsker{err: tt.err}, nil, nil)

			reply := a.Ask(context.Background(), "anything?", nil)

			require.NotNil(t, reply)
			assert.True(t, reply.Failed)
			assert.Equal(t, tt.want, reply.Formatted.Text)
			assert.Empty(t, a.Session().History())
		})
	}
}

func TestAssistant_Reset(t *testing.T) {
	a := NewAssistant(&fakeAsker{result: &stream.Result{Text: "ok"}}, nil, nil)
	a.Ask(context.Background(), "q", nil)
	a.Reset()
	assert.Empty(t, a.Session().History())
}
