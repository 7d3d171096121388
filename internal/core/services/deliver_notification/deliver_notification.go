package delivernotification

import (
	"context"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	"streemi/internal/core/services"
)

type Input struct {
	Message notification.Message
}

type Result struct{}

type service struct {
	log      logging.Logger
	notifier notification.Notifier
}

// New delivers a queued notification through a direct transport.
func New(log logging.Logger, notifier notification.Notifier) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &service{log: log, notifier: notifier}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	msg := input.Message
	if msg.To == "" || msg.Template == "" {
		return result, e.NewInvalidStateError("notification must have a recipient and a template")
	}

	if err := s.notifier.Send(ctx, msg.To, msg.Template, msg.Context); err != nil {
		s.log.Error(
			ctx,
			"Could not deliver notification.",
			logging.Entry("template", msg.Template),
			logging.Entry("err", err),
		)
		return result, &notification.NotifyError{Template: msg.Template, Err: err}
	}

	s.log.Info(ctx, "Notification has been delivered.", logging.Entry("template", msg.Template))
	return result, nil
}
