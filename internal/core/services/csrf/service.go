package csrf

import (
	"context"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/services"
)

type contextKey string

const (
	CONTEXT_CSRF_TOKEN_KEY     = contextKey("csrfToken")
	CONTEXT_CSRF_CLIENT_ID_KEY = contextKey("csrfClientID")
)

// WithToken returns a copy of ctx carrying a submitted token and the client it came from.
func WithToken(ctx context.Context, clientID ClientID, token Token) context.Context {
	ctx = context.WithValue(ctx, CONTEXT_CSRF_CLIENT_ID_KEY, clientID)
	return context.WithValue(ctx, CONTEXT_CSRF_TOKEN_KEY, token)
}

type service[T any, S any] struct {
	log       logging.Logger
	validator TokenValidator
	action    string
	inner     services.Service[T, S]
}

// WithCsrf rejects the call with ErrInvalidCsrfToken unless the context
// carries a token issued for action to the same client. inner is not run
// on rejection.
func WithCsrf[T any, S any](
	log logging.Logger,
	validator TokenValidator,
	action string,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if validator == nil {
		panic(e.NewNilArgumentError("validator"))
	}
	if action == "" {
		panic(e.NewEmptyArgumentError("action"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:       log,
		validator: validator,
		action:    action,
		inner:     inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, _ := ctx.Value(CONTEXT_CSRF_TOKEN_KEY).(Token)
	clientID, _ := ctx.Value(CONTEXT_CSRF_CLIENT_ID_KEY).(ClientID)
	if token.IsZero() || clientID.IsZero() || !s.validator.ValidateCsrfToken(ctx, s.action, clientID, token) {
		s.log.Warning(ctx, "Invalid CSRF token.", logging.Entry("action", s.action))
		return result, ErrInvalidCsrfToken
	}
	return s.inner.Run(ctx, input)
}
