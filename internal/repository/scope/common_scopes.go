package scope

import "gorm.io/gorm"

// TranscriptOrder replays ask logs in the order they were written. The id
// tiebreak keeps two answers archived in the same instant stable.
func TranscriptOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
