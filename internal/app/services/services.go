package services

import (
	"streemi/internal/app/deps"
	drl "streemi/internal/core/domain/rate_limiter"
	"streemi/internal/core/services"
	beginpasswordreset "streemi/internal/core/services/begin_password_reset"
	completepasswordreset "streemi/internal/core/services/complete_password_reset"
	"streemi/internal/core/services/csrf"
	delivernotification "streemi/internal/core/services/deliver_notification"
	"streemi/internal/core/services/instrumentation"
	ratelimiting "streemi/internal/core/services/rate_limiting"
	requestpasswordreset "streemi/internal/core/services/request_password_reset"
	handlercsrf "streemi/internal/http/handlers/csrf"
)

type Services struct {
	RequestPasswordReset  services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	BeginPasswordReset    services.Service[beginpasswordreset.Input, beginpasswordreset.Result]
	CompletePasswordReset services.Service[completepasswordreset.Input, completepasswordreset.Result]

	DeliverNotification services.Service[delivernotification.Input, delivernotification.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RequestPasswordReset = instrumentation.WithOutcomeCounting(
		deps.Metrics,
		"request_password_reset",
		instrumentation.ClassifyPasswordResetError,
		ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			requestpasswordreset.NewWithNotification(
				deps.Logger,
				deps.Notifier,
				deps.Config.PasswordResetBaseURL,
				requestpasswordreset.New(
					deps.Logger,
					deps.UnitOfWork,
					deps.PasswordResetTokenGenerator,
					deps.Config.PasswordResetTokenTTL,
					deps.Now,
				),
			),
			ratelimiting.Rule[requestpasswordreset.Input]{
				Name:  "email",
				Limit: drl.Limit{Interval: drl.Hour, Value: deps.Config.PasswordResetLimit},
				Key:   requestpasswordreset.Input.EmailRateLimitKey,
			},
			ratelimiting.Rule[requestpasswordreset.Input]{
				Name:  "client",
				Limit: drl.Limit{Interval: drl.Hour, Value: deps.Config.PasswordResetClientLimit},
				Key:   requestpasswordreset.Input.ClientRateLimitKey,
			},
		),
	)
	s.BeginPasswordReset = instrumentation.WithOutcomeCounting(
		deps.Metrics,
		"begin_password_reset",
		instrumentation.ClassifyPasswordResetError,
		beginpasswordreset.New(
			deps.Logger,
			deps.AccountRepository,
			deps.Now,
		),
	)
	s.CompletePasswordReset = instrumentation.WithOutcomeCounting(
		deps.Metrics,
		"complete_password_reset",
		instrumentation.ClassifyPasswordResetError,
		csrf.WithCsrf(
			deps.Logger,
			deps.CsrfTokenManager,
			handlercsrf.RESET_PASSWORD_ACTION,
			completepasswordreset.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.PasswordHasher,
				deps.Now,
			),
		),
	)

	s.DeliverNotification = instrumentation.WithOutcomeCounting(
		deps.Metrics,
		"deliver_notification",
		instrumentation.ClassifyPasswordResetError,
		delivernotification.New(deps.Logger, deps.DeliveryNotifier),
	)

	return s
}
