package uow

import (
	"context"
	"streemi/internal/core/domain/user"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Accounts() user.AccountRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
