package implementation

import (
	"context"
	"errors"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/mapper"
	"morning-pulse-be/internal/model"
	"morning-pulse-be/internal/repository/contract"
	"morning-pulse-be/internal/repository/specification"

	"gorm.io/gorm"
)

type EditorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EditorMapper
}

func NewEditorRepository(db *gorm.DB) contract.EditorRepository {
	return &EditorRepositoryImpl{
		db:     db,
		mapper: mapper.NewEditorMapper(),
	}
}

func (r *EditorRepositoryImpl) Create(ctx context.Context, editor *entity.Editor) error {
	m := r.mapper.ToModel(editor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*editor = *r.mapper.ToEntity(m)
	return nil
}

func (r *EditorRepositoryImpl) Update(ctx context.Context, editor *entity.Editor) error {
	m := r.mapper.ToModel(editor)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*editor = *r.mapper.ToEntity(m)
	return nil
}

func (r *EditorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Editor, error) {
	var m model.Editor
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EditorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Editor, error) {
	var models []*model.Editor
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Editor, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}
