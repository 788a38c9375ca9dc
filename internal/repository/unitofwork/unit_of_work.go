package unitofwork

import (
	"context"

	"morning-pulse-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StoryRepository() contract.StoryRepository
	OpinionRepository() contract.OpinionRepository
	EditorRepository() contract.EditorRepository
	AskLogRepository() contract.AskLogRepository
}
