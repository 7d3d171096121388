package user

import (
	"context"
	"database/sql"
	"errors"
	c "streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/user"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "account_email_idx"

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const accountColumns = `id, email, password_hash, password_reset_token, password_reset_token_expires_at, created_at`

const createAccount = `
INSERT INTO account (email, password_hash, created_at)
VALUES ($1, $2, $3)
RETURNING ` + accountColumns

const getAccountByID = `SELECT ` + accountColumns + ` FROM account WHERE id = $1`

const getAccountByEmail = `SELECT ` + accountColumns + ` FROM account WHERE email = $1`

const getAccountByPasswordResetToken = `SELECT ` + accountColumns + ` FROM account WHERE password_reset_token = $1`

const setPasswordResetToken = `
UPDATE account
SET password_reset_token = $2, password_reset_token_expires_at = $3
WHERE id = $1`

// The token predicate is re-checked after the row lock is taken, so only
// one of several concurrent statements with the same token updates the row.
const consumePasswordResetToken = `
UPDATE account
SET password_hash = $2, password_reset_token = NULL, password_reset_token_expires_at = NULL
WHERE password_reset_token = $1 AND password_reset_token_expires_at > $3
RETURNING ` + accountColumns

type PgxAccountRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxAccountRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxAccountRepository{db: db}
}

func (r *PgxAccountRepository) Create(ctx context.Context, input user.CreateAccountInput) (a user.Account, err error) {
	row := r.db.QueryRow(ctx, createAccount, string(input.Email), string(input.PasswordHash), input.CreatedAt)
	a, err = scanAccount(row)

	var errEmailUniqueConstraint *pgconn.PgError
	if errors.As(err, &errEmailUniqueConstraint) {
		if errEmailUniqueConstraint.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
			errEmailUniqueConstraint.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return a, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return a, err
	}
	return a, a.Validate()
}

func (r *PgxAccountRepository) GetByID(ctx context.Context, id user.ID) (a user.Account, err error) {
	return r.getOne(ctx, getAccountByID, int64(id))
}

func (r *PgxAccountRepository) GetByEmail(ctx context.Context, email c.Email) (a user.Account, err error) {
	return r.getOne(ctx, getAccountByEmail, string(email))
}

func (r *PgxAccountRepository) GetByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
) (a user.Account, err error) {
	return r.getOne(ctx, getAccountByPasswordResetToken, string(token))
}

func (r *PgxAccountRepository) SetPasswordResetToken(ctx context.Context, input user.SetPasswordResetTokenInput) error {
	tag, err := r.db.Exec(ctx, setPasswordResetToken, int64(input.AccountID), string(input.Token), input.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrAccountNotFound
	}
	return nil
}

func (r *PgxAccountRepository) ConsumePasswordResetToken(
	ctx context.Context,
	input user.ConsumePasswordResetTokenInput,
) (a user.Account, err error) {
	row := r.db.QueryRow(ctx, consumePasswordResetToken, string(input.Token), string(input.PasswordHash), input.At)
	a, err = scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, user.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return a, err
	}
	return a, a.Validate()
}

func (r *PgxAccountRepository) getOne(ctx context.Context, query string, arg interface{}) (a user.Account, err error) {
	a, err = scanAccount(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return a, user.ErrAccountNotFound
	}
	if err != nil {
		return a, err
	}
	return a, a.Validate()
}

func scanAccount(row pgx.Row) (a user.Account, err error) {
	var (
		id                 int64
		email              string
		passwordHash       string
		resetToken         sql.NullString
		resetTokenExpiryAt sql.NullTime
		createdAt          time.Time
	)
	err = row.Scan(&id, &email, &passwordHash, &resetToken, &resetTokenExpiryAt, &createdAt)
	if err != nil {
		return a, err
	}
	return user.Account{
		ID:                          user.ID(id),
		Email:                       c.Email(email),
		PasswordHash:                user.PasswordHash(passwordHash),
		PasswordResetToken:          c.NewOptional(user.PasswordResetToken(resetToken.String), resetToken.Valid),
		PasswordResetTokenExpiresAt: c.NewOptional(resetTokenExpiryAt.Time.UTC(), resetTokenExpiryAt.Valid),
		CreatedAt:                   createdAt.UTC(),
	}, nil
}
