package completepasswordreset

import (
	"context"
	"errors"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	uow "streemi/internal/core/domain/unit_of_work"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	"time"
)

type Input struct {
	Token           user.PasswordResetToken
	NewPassword     user.RawPassword
	ConfirmPassword user.RawPassword
}

type Result struct {
	Account user.AccountRef
}

type service struct {
	log            logging.Logger
	uow            uow.UnitOfWork
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	uow uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if uow == nil {
		panic(e.NewNilArgumentError("uow"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		uow:            uow,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidOrExpiredToken
	}

	uow, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, user.NewStoreError("begin", err)
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByPasswordResetToken(ctx, input.Token)
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
		return result, user.ErrInvalidOrExpiredToken
	}

	if input.NewPassword != input.ConfirmPassword {
		return result, user.ErrPasswordMismatch
	}
	if err := user.ValidateNewPassword(input.NewPassword, account.Email); err != nil {
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash new password.", logging.Entry("accountID", account.ID), logging.Entry("err", err))
		return result, err
	}

	// Check and consume in one statement: a concurrent call holding the same
	// token ends up here with zero affected rows.
	updated, err := uow.Accounts().ConsumePasswordResetToken(ctx, user.ConsumePasswordResetTokenInput{
		Token:        input.Token,
		PasswordHash: newPasswordHash,
		At:           s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrInvalidOrExpiredToken) {
		s.log.Info(
			ctx,
			"Password reset token was consumed concurrently.",
			logging.Entry("accountID", account.ID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not consume password reset token.",
			logging.Entry("accountID", account.ID),
			logging.Entry("err", err),
		)
		return result, user.NewStoreError("consume password reset token", err)
	}

	if err := uow.Commit(ctx); err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("accountID", account.ID),
			logging.Entry("err", err),
		)
		return result, user.NewStoreError("commit", err)
	}

	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("accountID", updated.ID))
	return Result{Account: updated.Ref()}, nil
}
