package unitofwork

import "context"

// RepositoryFactory hands every service call its own unit of work, so a
// review transaction never leaks into a concurrent feed read.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
