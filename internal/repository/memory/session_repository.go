package memory

import (
	"time"

	"morning-pulse-be/pkg/rag/conversation"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps server-side conversations keyed by client session id.
// Entries expire after ttl without use.
type SessionRepository struct {
	cache     *cache.Cache
	extractor conversation.EntityExtractor
}

func NewSessionRepository(ttl time.Duration, extractor conversation.EntityExtractor) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache:     cache.New(ttl, ttl/6),
		extractor: extractor,
	}
}

// GetOrCreate returns the live session for id, creating it when missing.
// The second result reports whether it already existed.
func (r *SessionRepository) GetOrCreate(sessionID string) (*conversation.Session, bool) {
	if s, ok := r.Get(sessionID); ok {
		return s, true
	}
	s := conversation.NewSession(r.extractor)
	if err := r.cache.Add(sessionID, s, cache.DefaultExpiration); err != nil {
		// lost a race with another request for the same id
		if existing, ok := r.Get(sessionID); ok {
			return existing, true
		}
		r.cache.SetDefault(sessionID, s)
	}
	return s, false
}

// Get also refreshes the expiry.
func (r *SessionRepository) Get(sessionID string) (*conversation.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		s := x.(*conversation.Session)
		r.cache.SetDefault(sessionID, s)
		return s, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) bool {
	_, found := r.cache.Get(sessionID)
	r.cache.Delete(sessionID)
	return found
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
