package uow

import (
	"context"
	e "streemi/internal/core/domain/errors"
	uow "streemi/internal/core/domain/unit_of_work"
	"streemi/internal/core/domain/user"
	dbuser "streemi/internal/db/user"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxUnitOfWorkContext struct {
	tx       pgx.Tx
	accounts *dbuser.PgxAccountRepository
}

func newPgxUnitOfWorkContext(tx pgx.Tx) *pgxUnitOfWorkContext {
	return &pgxUnitOfWorkContext{
		tx:       tx,
		accounts: dbuser.NewPgxRepository(tx),
	}
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

// Rollback after Commit only returns pgx.ErrTxClosed, so callers may defer it.
func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Accounts() user.AccountRepository {
	return c.accounts
}

type PgxUnitOfWork struct {
	db *pgxpool.Pool
}

func NewPgxUnitOfWork(db *pgxpool.Pool) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUnitOfWork{db: db}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return newPgxUnitOfWorkContext(tx), nil
}
