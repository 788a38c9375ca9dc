package mapper

import (
	"time"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/model"
)

type EditorMapper struct{}

func NewEditorMapper() *EditorMapper {
	return &EditorMapper{}
}

func (m *EditorMapper) ToEntity(e *model.Editor) *entity.Editor {
	if e == nil {
		return nil
	}
	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}
	return &entity.Editor{
		Id:           e.Id,
		Email:        e.Email,
		FullName:     e.FullName,
		PasswordHash: e.PasswordHash,
		IsActive:     e.IsActive,
		LastLoginAt:  e.LastLoginAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *EditorMapper) ToModel(e *entity.Editor) *model.Editor {
	if e == nil {
		return nil
	}
	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}
	return &model.Editor{
		Id:           e.Id,
		Email:        e.Email,
		FullName:     e.FullName,
		PasswordHash: e.PasswordHash,
		IsActive:     e.IsActive,
		LastLoginAt:  e.LastLoginAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
