package contract

import (
	"context"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/repository/specification"
)

type OpinionRepository interface {
	Create(ctx context.Context, opinion *entity.Opinion) error
	Update(ctx context.Context, opinion *entity.Opinion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Opinion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Opinion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
