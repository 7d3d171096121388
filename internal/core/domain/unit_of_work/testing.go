package uow

import (
	"context"
	"fmt"
	"streemi/internal/core/domain/user"
	"sync/atomic"
)

// FakeUnitOfWorkContext writes straight through to the shared fake
// repository; Rollback does not undo anything, it is only recorded.
type FakeUnitOfWorkContext struct {
	AccountRepository *user.FakeAccountRepository
	ReturnCommitError bool
	rollbackCalls     atomic.Int32
	commitCalls       atomic.Int32
}

func NewFakeUnitOfWorkContext(accountRepository *user.FakeAccountRepository) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{AccountRepository: accountRepository}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.rollbackCalls.Add(1)
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.ReturnCommitError {
		return fmt.Errorf("could not commit")
	}
	c.commitCalls.Add(1)
	return nil
}

func (c *FakeUnitOfWorkContext) Accounts() user.AccountRepository {
	return c.AccountRepository
}

func (c *FakeUnitOfWorkContext) WasCommitCalled() bool {
	return c.commitCalls.Load() > 0
}

func (c *FakeUnitOfWorkContext) CommitCount() int {
	return int(c.commitCalls.Load())
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(user.NewFakeAccountRepository()),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	return u.Context, nil
}
