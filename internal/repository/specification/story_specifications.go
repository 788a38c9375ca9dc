package specification

import (
	"time"

	"gorm.io/gorm"
)

type StoriesInCategory struct {
	Category string
}

func (s StoriesInCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// PublishedSince keeps stories published at or after Since.
type PublishedSince struct {
	Since time.Time
}

func (s PublishedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("published_at >= ?", s.Since)
}

// LatestStories orders by publication, newest first.
type LatestStories struct{}

func (s LatestStories) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("published_at DESC").Order("created_at DESC")
}
