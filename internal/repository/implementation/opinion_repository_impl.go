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

type OpinionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OpinionMapper
}

func NewOpinionRepository(db *gorm.DB) contract.OpinionRepository {
	return &OpinionRepositoryImpl{
		db:     db,
		mapper: mapper.NewOpinionMapper(),
	}
}

func (r *OpinionRepositoryImpl) Create(ctx context.Context, opinion *entity.Opinion) error {
	m := r.mapper.ToModel(opinion)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*opinion = *r.mapper.ToEntity(m)
	return nil
}

func (r *OpinionRepositoryImpl) Update(ctx context.Context, opinion *entity.Opinion) error {
	m := r.mapper.ToModel(opinion)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*opinion = *r.mapper.ToEntity(m)
	return nil
}

func (r *OpinionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Opinion, error) {
	var m model.Opinion
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OpinionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Opinion, error) {
	var models []*model.Opinion
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *OpinionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Opinion{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
