package contract

import (
	"context"

	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/repository/specification"
)

type EditorRepository interface {
	Create(ctx context.Context, editor *entity.Editor) error
	Update(ctx context.Context, editor *entity.Editor) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Editor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Editor, error)
}
