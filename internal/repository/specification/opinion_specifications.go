package specification

import "gorm.io/gorm"

type OpinionsWithStatus struct {
	Status string
}

func (s OpinionsWithStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ReviewQueueOrder lists the oldest submissions first.
type ReviewQueueOrder struct{}

func (s ReviewQueueOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("submitted_at ASC")
}

// LatestPublishedOrder lists by publication then submission, newest first.
type LatestPublishedOrder struct{}

func (s LatestPublishedOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("COALESCE(published_at, submitted_at) DESC")
}
