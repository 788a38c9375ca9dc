package store

import (
	"sort"
	"time"
)

// Story is one published news item as the web client and the feed know it.
type Story struct {
	ID        string `json:"id"`
	Headline  string `json:"headline"`
	Detail    string `json:"detail"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	URL       string `json:"url,omitempty"`
	Image     string `json:"image,omitempty"`
	Date      string `json:"date,omitempty"`
	Timestamp *int64 `json:"timestamp,omitempty"` // epoch milliseconds
}

// PublishedAt returns the story timestamp as a time, if it has one.
func (s Story) PublishedAt() (time.Time, bool) {
	if s.Timestamp == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*s.Timestamp), true
}

// Corpus maps a category label to its ordered list of stories.
type Corpus map[string][]Story

// Categories returns the corpus categories in sorted order.
func (c Corpus) Categories() []string {
	categories := make([]string, 0, len(c))
	for category := range c {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Size returns the total number of stories across categories.
func (c Corpus) Size() int {
	total := 0
	for _, stories := range c {
		total += len(stories)
	}
	return total
}

// ScoredStory is a story plus its relevance score for one query.
type ScoredStory struct {
	Story
	Score    int    `json:"score"`
	Category string `json:"category"`
}

// Source is one entry of the source list returned alongside an answer.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Index int    `json:"index,omitempty"`
}
