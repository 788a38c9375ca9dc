package store

import (
	"sort"
	"time"
)

// Opinion is a guest opinion piece.
type Opinion struct {
	ID          string     `json:"id"`
	Headline    string     `json:"headline"`
	SubHeadline string     `json:"subHeadline,omitempty"`
	Body        string     `json:"body"`
	AuthorName  string     `json:"authorName"`
	AuthorTitle string     `json:"authorTitle,omitempty"`
	Category    string     `json:"category,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	IsPublished bool       `json:"isPublished"`
}

// SortKey is the time used to order opinions: publication, then submission.
func (o Opinion) SortKey() time.Time {
	if o.PublishedAt != nil {
		return *o.PublishedAt
	}
	if o.SubmittedAt != nil {
		return *o.SubmittedAt
	}
	return time.Time{}
}

// LatestPublished keeps only published opinions, most recent first, capped at limit.
// The input slice is left untouched.
func LatestPublished(opinions []Opinion, limit int) []Opinion {
	published := make([]Opinion, 0, len(opinions))
	for _, o := range opinions {
		if o.IsPublished {
			published = append(published, o)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].SortKey().After(published[j].SortKey())
	})
	if limit >= 0 && len(published) > limit {
		published = published[:limit]
	}
	return published
}
