package user

import (
	"context"
	c "streemi/internal/core/domain/common"
	"time"
)

type CreateAccountInput struct {
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type SetPasswordResetTokenInput struct {
	AccountID ID
	Token     PasswordResetToken
	ExpiresAt time.Time
}

type ConsumePasswordResetTokenInput struct {
	Token        PasswordResetToken
	PasswordHash PasswordHash
	At           time.Time
}

// AccountRepository is the account store used by the reset flow.
//
// ConsumePasswordResetToken must be a single atomic check-and-set: it sets the
// new password hash and clears the token only if the token is still present
// and alive at input.At, and returns ErrInvalidOrExpiredToken otherwise. Of
// several concurrent calls with the same token at most one succeeds.
type AccountRepository interface {
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	GetByID(ctx context.Context, id ID) (Account, error)
	GetByEmail(ctx context.Context, email c.Email) (Account, error)
	GetByPasswordResetToken(ctx context.Context, token PasswordResetToken) (Account, error)
	SetPasswordResetToken(ctx context.Context, input SetPasswordResetTokenInput) error
	ConsumePasswordResetToken(ctx context.Context, input ConsumePasswordResetTokenInput) (Account, error)
}
