package memory

import (
	"testing"
	"time"

	"morning-pulse-be/pkg/rag/conversation"
	"morning-pulse-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_GetOrCreate(t *testing.T) {
	repo := NewSessionRepository(time.Minute, nil)

	s1, existed := repo.GetOrCreate("tab-1")
	assert.False(t, existed)
	s1.RecordExchange("q", "a", conversation.Exchange{})

	s2, existed := repo.GetOrCreate("tab-1")
	assert.True(t, existed)
	assert.Same(t, s1, s2)

	other, _ := repo.GetOrCreate("tab-2")
	assert.NotSame(t, s1, other)
	assert.Empty(t, other.History())
	assert.Equal(t, 2, repo.Count())
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewSessionRepository(time.Minute, nil)
	repo.GetOrCreate("tab-1")

	assert.True(t, repo.Delete("tab-1"))
	assert.False(t, repo.Delete("tab-1"))
	_, ok := repo.Get("tab-1")
	assert.False(t, ok)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, nil)
	repo.GetOrCreate("tab-1")

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get("tab-1")
	assert.False(t, ok)
}

func TestCorpusCache(t *testing.T) {
	c := NewCorpusCache(time.Minute)
	_, ok := c.Corpus()
	assert.False(t, ok)

	c.SetCorpus(store.Corpus{"Local": {{ID: "L01"}}})
	c.SetOpinions([]store.Opinion{{ID: "o1"}})

	corpus, ok := c.Corpus()
	require.True(t, ok)
	assert.Equal(t, 1, corpus.Size())

	c.Invalidate()
	_, ok = c.Corpus()
	assert.False(t, ok)
	_, ok = c.Opinions()
	assert.False(t, ok)
}
