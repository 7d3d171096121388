package requestpasswordreset

import (
	"context"
	"errors"
	c "streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	uow "streemi/internal/core/domain/unit_of_work"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
	// ClientIP is only used for rate limiting and may be empty.
	ClientIP string
}

func (i Input) EmailRateLimitKey() string {
	return "request-password-reset::" + string(i.Email)
}

func (i Input) ClientRateLimitKey() string {
	if i.ClientIP == "" {
		return ""
	}
	return "request-password-reset::client::" + i.ClientIP
}

type Result struct {
	Account   user.AccountRef
	Token     user.PasswordResetToken
	ExpiresAt time.Time
}

type service struct {
	log            logging.Logger
	uow            uow.UnitOfWork
	tokenGenerator user.PasswordResetTokenGenerator
	tokenTTL       time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	uow uow.UnitOfWork,
	tokenGenerator user.PasswordResetTokenGenerator,
	tokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if uow == nil {
		panic(e.NewNilArgumentError("uow"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if tokenTTL <= 0 {
		panic("tokenTTL must be positive")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		uow:            uow,
		tokenGenerator: tokenGenerator,
		tokenTTL:       tokenTTL,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, user.NewStoreError("begin", err)
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrAccountNotFound) {
		s.log.Info(ctx, "Account not found for password reset.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get account for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, user.NewStoreError("get account by email", err)
	}

	token, err := s.tokenGenerator.GeneratePasswordResetToken()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
		return result, err
	}
	expiresAt := s.now().Add(s.tokenTTL)

	err = uow.Accounts().SetPasswordResetToken(ctx, user.SetPasswordResetTokenInput{
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not set password reset token.",
			logging.Entry("accountID", account.ID),
			logging.Entry("err", err),
		)
		return result, user.NewStoreError("set password reset token", err)
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

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("accountID", account.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return Result{Account: account.Ref(), Token: token, ExpiresAt: expiresAt}, nil
}
