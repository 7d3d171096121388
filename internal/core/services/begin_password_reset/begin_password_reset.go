package beginpasswordreset

import (
	"context"
	"errors"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	"time"
)

type Input struct {
	Token user.PasswordResetToken
}

type Result struct {
	Account user.AccountRef
}

type service struct {
	log               logging.Logger
	accountRepository user.AccountRepository
	now               func() time.Time
}

// New returns the read-only step of the reset flow: it resolves a token to
// its account and never changes the stored token.
func New(
	log logging.Logger,
	accountRepository user.AccountRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		accountRepository: accountRepository,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidOrExpiredToken
	}

	account, err := s.accountRepository.GetByPasswordResetToken(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrAccountNotFound) {
		return result, user.ErrInvalidOrExpiredToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get account by password reset token.", logging.Entry("err", err))
		return result, user.NewStoreError("get account by password reset token", err)
	}

	if !account.HasLivePasswordResetToken(input.Token, s.now()) {
		s.log.Info(ctx, "Password reset token has expired.", logging.Entry("accountID", account.ID))
		return result, user.ErrInvalidOrExpiredToken
	}

	return Result{Account: account.Ref()}, nil
}
