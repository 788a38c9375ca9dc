package specification

import "gorm.io/gorm"

type AskLogsInSession struct {
	SessionID string
}

func (s AskLogsInSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
