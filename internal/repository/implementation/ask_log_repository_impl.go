package implementation

import (
	"context"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/mapper"
	"morning-pulse-be/internal/model"
	"morning-pulse-be/internal/repository/contract"
	"morning-pulse-be/internal/repository/scope"
	"morning-pulse-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AskLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AskLogMapper
}

func NewAskLogRepository(db *gorm.DB) contract.AskLogRepository {
	return &AskLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAskLogMapper(),
	}
}

func (r *AskLogRepositoryImpl) Create(ctx context.Context, log *entity.AskLog) error {
	m, err := r.mapper.ToModel(log)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *AskLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AskLog, error) {
	var models []*model.AskLog
	// oldest first
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...).Scopes(scope.TranscriptOrder)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.AskLog, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *AskLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.AskLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
