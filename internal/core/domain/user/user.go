package user

import (
	"fmt"
	c "streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type Account struct {
	ID                          ID
	Email                       c.Email
	PasswordHash                PasswordHash
	PasswordResetToken          c.Optional[PasswordResetToken]
	PasswordResetTokenExpiresAt c.Optional[time.Time]
	CreatedAt                   time.Time
}

func (a *Account) Validate() error {
	if a.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for account %d", a.ID))
	}
	if a.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for account %d", a.ID))
	}
	if a.PasswordResetToken.IsPresent != a.PasswordResetTokenExpiresAt.IsPresent {
		return e.NewInvalidStateError(
			fmt.Sprintf("password reset token and its expiration must be set together for account %d", a.ID),
		)
	}
	return nil
}

// HasLivePasswordResetToken reports whether the account holds the given token
// and the token has not expired at the moment now.
func (a *Account) HasLivePasswordResetToken(token PasswordResetToken, now time.Time) bool {
	if !a.PasswordResetToken.IsPresent || a.PasswordResetToken.Value != token {
		return false
	}
	return now.Before(a.PasswordResetTokenExpiresAt.Value)
}

func (a *Account) Ref() AccountRef {
	return AccountRef{ID: a.ID, Email: a.Email}
}

// AccountRef is what callers get back from a reset flow; it never carries
// credentials or tokens.
type AccountRef struct {
	ID    ID
	Email c.Email
}
