package requestpasswordreset

import (
	"context"
	"errors"
	"net/url"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	"streemi/internal/core/services"
)

type serviceWithNotification struct {
	log          logging.Logger
	notifier     notification.Notifier
	resetBaseURL url.URL
	inner        services.Service[Input, Result]
}

// NewWithNotification sends the issued token to the account email once inner
// has committed it. A delivery failure is returned as *notification.NotifyError
// together with the successful result: the token stays issued.
func NewWithNotification(
	log logging.Logger,
	notifier notification.Notifier,
	resetBaseURL url.URL,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithNotification{
		log:          log,
		notifier:     notifier,
		resetBaseURL: resetBaseURL,
		inner:        inner,
	}
}

func (s *serviceWithNotification) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending password reset token.", logging.Entry("err", err))
		return result, err
	}

	err = s.notifier.Send(
		ctx,
		result.Account.Email,
		notification.PasswordReset,
		notification.Context{
			notification.ContextResetToken: string(result.Token),
			notification.ContextResetURL:   s.resetBaseURL.JoinPath(string(result.Token)).String(),
			notification.ContextUserEmail:  string(result.Account.Email),
		},
	)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token, the token stays issued.",
			logging.Entry("accountID", result.Account.ID),
			logging.Entry("err", err),
		)
		return result, &notification.NotifyError{Template: notification.PasswordReset, Err: err}
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent to the account email.",
		logging.Entry("accountID", result.Account.ID),
	)
	return result, nil
}
