// Package conversation keeps the rolling chat history and the entity context
// that carries pronoun hints from one question to the next.
package conversation

import (
	"slices"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// wire role used by the ask endpoint for assistant turns
	RoleModel = "model"

	MaxHistory  = 10
	MaxEntities = 20
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context is a snapshot of what the session has talked about so far.
type Context struct {
	Entities       []string `json:"entities"`
	Topics         []string `json:"topics"`
	ArticleIndices []int    `json:"articleIndices"`
	LastEntity     string   `json:"lastEntity,omitempty"`
}

// Exchange carries the per-answer metadata recorded next to the messages.
type Exchange struct {
	Topics       []string
	CitedIndices []int
}

type Session struct {
	mu        sync.Mutex
	extractor EntityExtractor
	history   []Message
	ctx       Context
}

func NewSession(extractor EntityExtractor) *Session {
	if extractor == nil {
		extractor = BigramExtractor{}
	}
	return &Session{extractor: extractor}
}

// RecordExchange appends the question and the answer, in that order, and
// refreshes the entity context from the answer.
func (s *Session) RecordExchange(question, answer string, ex Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history,
		Message{Role: RoleUser, Content: question},
		Message{Role: RoleAssistant, Content: answer},
	)
	if over := len(s.history) - MaxHistory; over > 0 {
		s.history = slices.Clone(s.history[over:])
	}

	found := s.extractor.Extract(answer)
	for _, e := range found {
		s.ctx.Entities = appendUnique(s.ctx.Entities, e)
	}
	if over := len(s.ctx.Entities) - MaxEntities; over > 0 {
		s.ctx.Entities = slices.Clone(s.ctx.Entities[over:])
	}
	if len(found) > 0 {
		s.ctx.LastEntity = found[len(found)-1]
	}
	for _, t := range ex.Topics {
		s.ctx.Topics = appendUnique(s.ctx.Topics, t)
	}
	for _, idx := range ex.CitedIndices {
		if !slices.Contains(s.ctx.ArticleIndices, idx) {
			s.ctx.ArticleIndices = append(s.ctx.ArticleIndices, idx)
		}
	}
}

// Seed replaces the session state, used when a client hands over history it kept itself.
func (s *Session) Seed(history []Message, entities []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if over := len(history) - MaxHistory; over > 0 {
		history = history[over:]
	}
	s.history = slices.Clone(history)
	s.ctx = Context{}
	for _, e := range entities {
		s.ctx.Entities = appendUnique(s.ctx.Entities, e)
	}
	if n := len(s.ctx.Entities); n > 0 {
		s.ctx.LastEntity = s.ctx.Entities[n-1]
	}
}

func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// RecentExchanges returns the last n question/answer pairs as a flat message list.
func (s *Session) RecentExchanges(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LastExchanges(s.history, n)
}

func (s *Session) Entities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ctx.Entities)
}

func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Context{
		Entities:       slices.Clone(s.ctx.Entities),
		Topics:         slices.Clone(s.ctx.Topics),
		ArticleIndices: slices.Clone(s.ctx.ArticleIndices),
		LastEntity:     s.ctx.LastEntity,
	}
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.ctx = Context{}
}

// LastExchanges returns the tail of history covering n exchanges (2n messages).
func LastExchanges(history []Message, n int) []Message {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	start := len(history) - 2*n
	if start < 0 {
		start = 0
	}
	return slices.Clone(history[start:])
}

func appendUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
