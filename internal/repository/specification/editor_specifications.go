package specification

import "gorm.io/gorm"

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ActiveEditors struct{}

func (s ActiveEditors) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
