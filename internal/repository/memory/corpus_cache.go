package memory

import (
	"time"

	"morning-pulse-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

const (
	corpusKey   = "corpus"
	opinionsKey = "opinions"
)

// CorpusCache holds the stored corpus and published opinions between writes.
type CorpusCache struct {
	cache *cache.Cache
}

func NewCorpusCache(ttl time.Duration) *CorpusCache {
	return &CorpusCache{cache: cache.New(ttl, 2*ttl)}
}

func (c *CorpusCache) Corpus() (store.Corpus, bool) {
	if x, ok := c.cache.Get(corpusKey); ok {
		return x.(store.Corpus), true
	}
	return nil, false
}

func (c *CorpusCache) SetCorpus(corpus store.Corpus) {
	c.cache.SetDefault(corpusKey, corpus)
}

func (c *CorpusCache) Opinions() ([]store.Opinion, bool) {
	if x, ok := c.cache.Get(opinionsKey); ok {
		return x.([]store.Opinion), true
	}
	return nil, false
}

func (c *CorpusCache) SetOpinions(opinions []store.Opinion) {
	c.cache.SetDefault(opinionsKey, opinions)
}

// Invalidate drops both entries; called whenever a story or opinion is published.
func (c *CorpusCache) Invalidate() {
	c.cache.Delete(corpusKey)
	c.cache.Delete(opinionsKey)
}
