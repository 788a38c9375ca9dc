package retrieval

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"morning-pulse-be/pkg/store"
)

// Scoring weights.
const (
	ExactPhraseBonus = 10
	HeadlineHit      = 3
	DetailHit        = 1
	CategoryHit      = 1

	FreshBonus  = 2 // published within FreshWindow
	RecentBonus = 1 // published within RecentWindow

	FreshWindow  = 24 * time.Hour
	RecentWindow = 168 * time.Hour

	minTokenLength = 3
)

// Tokenize lower-cases the query, splits it on whitespace and drops tokens of
// two characters or fewer.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Scorer assigns keyword relevance scores to stories.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer. A nil clock means time.Now.
func NewScorer(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// Score rates every story in the corpus against query and returns the stories
// with a positive score, best first. Each result carries the corpus key it was
// found under, which is what the selector caps on. Ties keep corpus order, with categories
// visited in sorted order.
func (s *Scorer) Score(query string, corpus store.Corpus) []store.ScoredStory {
	phrase := strings.ToLower(strings.TrimSpace(query))
	tokens := Tokenize(query)
	now := s.now()

	scored := make([]store.ScoredStory, 0)
	for _, category := range corpus.Categories() {
		for _, story := range corpus[category] {
			label := category
			if label == "" {
				label = story.Category
			}
			score := keywordScore(phrase, tokens, story, label)
			// A story needs keyword relevance before recency counts.
			if score == 0 {
				continue
			}
			score += recencyBonus(story, now)

			scored = append(scored, store.ScoredStory{
				Story:    story,
				Score:    score,
				Category: label,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func keywordScore(phrase string, tokens []string, story store.Story, label string) int {
	headline := strings.ToLower(story.Headline)
	detail := strings.ToLower(story.Detail)
	category := strings.ToLower(label)

	score := 0
	if phrase != "" && strings.Contains(headline, phrase) {
		score += ExactPhraseBonus
	}
	for _, token := range tokens {
		if strings.Contains(headline, token) {
			score += HeadlineHit
		}
		if strings.Contains(detail, token) {
			score += DetailHit
		}
		if strings.Contains(category, token) {
			score += CategoryHit
		}
	}
	return score
}

func recencyBonus(story store.Story, now time.Time) int {
	published, ok := story.PublishedAt()
	if !ok {
		return 0
	}
	age := now.Sub(published)
	switch {
	case age < FreshWindow:
		return FreshBonus
	case age < RecentWindow:
		return RecentBonus
	default:
		return 0
	}
}
