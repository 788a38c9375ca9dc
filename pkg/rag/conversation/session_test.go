package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_HistoryCap(t *testing.T) {
	s := NewSession(nil)
	for i := 1; i <= 7; i++ {
		s.RecordExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), Exchange{})
		assert.LessOrEqual(t, len(s.History()), MaxHistory)
	}

	h := s.History()
	require.Len(t, h, MaxHistory)
	assert.Equal(t, Message{Role: RoleUser, Content: "q3"}, h[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "a7"}, h[len(h)-1])
}

func TestSession_RecordExchange_Context(t *testing.T) {
	s := NewSession(BigramExtractor{})
	s.RecordExchange("what about the council?",
		"Members of City Council approved it; later Mayor Jones spoke after the City Council vote [1].",
		Exchange{Topics: []string{"local"}, CitedIndices: []int{1}})
	s.RecordExchange("and then?", "Nothing more from them [1][2].",
		Exchange{Topics: []string{"local", "politics"}, CitedIndices: []int{1, 2}})

	ctx := s.Context()
	assert.Equal(t, []string{"City Council", "Mayor Jones"}, ctx.Entities)
	assert.Equal(t, "Mayor Jones", ctx.LastEntity, "answer without entities keeps the previous pointer")
	assert.Equal(t, []string{"local", "politics"}, ctx.Topics)
	assert.Equal(t, []int{1, 2}, ctx.ArticleIndices)
}

func TestSession_RecentExchanges(t *testing.T) {
	s := NewSession(nil)
	assert.Empty(t, s.RecentExchanges(3))

	for i := 1; i <= 4; i++ {
		s.RecordExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), Exchange{})
	}
	recent := s.RecentExchanges(3)
	require.Len(t, recent, 6)
	assert.Equal(t, "q2", recent[0].Content)
	assert.Equal(t, "a4", recent[5].Content)
}

func TestSession_ResetAndSeed(t *testing.T) {
	s := NewSession(nil)
	s.RecordExchange("q", "Acme Corp grew.", Exchange{})
	s.Reset()
	assert.Empty(t, s.History())
	assert.Empty(t, s.Entities())
	assert.Equal(t, Context{}, s.Context())

	s.Seed([]Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}}, []string{"Acme Corp", "Acme Corp", "Jane Doe"})
	assert.Len(t, s.History(), 2)
	assert.Equal(t, []string{"Acme Corp", "Jane Doe"}, s.Entities())
	assert.Equal(t, "Jane Doe", s.Context().LastEntity)
}

func TestSession_ReturnsCopies(t *testing.T) {
	s := NewSession(nil)
	s.RecordExchange("q", "Acme Corp grew.", Exchange{})

	h := s.History()
	h[0].Content = "changed"
	e := s.Entities()
	e[0] = "changed"

	assert.Equal(t, "q", s.History()[0].Content)
	assert.Equal(t, "Acme Corp", s.Entities()[0])
}

func TestSession_ConcurrentRecord(t *testing.T) {
	s := NewSession(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RecordExchange(fmt.Sprintf("q%d", i), "a", Exchange{})
		}(i)
	}
	wg.Wait()

	h := s.History()
	require.Len(t, h, MaxHistory)
	for i := 0; i < len(h); i += 2 {
		assert.Equal(t, RoleUser, h[i].Role)
		assert.Equal(t, RoleAssistant, h[i+1].Role)
	}
}

func TestBigramExtractor(t *testing.T) {
	got := BigramExtractor{}.Extract("Senator Smith met New York officials. senator smith did not. New York again.")
	assert.Equal(t, []string{"Senator Smith", "New York"}, got)
	assert.Nil(t, BigramExtractor{}.Extract("no entities here"))
}

func TestWireRoundTrip(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi [1]"},
	}
	wire := ToWire(history)
	require.Len(t, wire, 2)
	assert.Equal(t, RoleModel, wire[1].Role)
	assert.Equal(t, "hi [1]", wire[1].Parts[0].Text)
	assert.Equal(t, history, FromWire(wire))
}
