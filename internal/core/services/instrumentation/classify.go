package instrumentation

import (
	"context"
	"errors"
	"streemi/internal/core/domain/notification"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services/csrf"
)

// ClassifyPasswordResetError maps reset flow errors to low-cardinality labels.
func ClassifyPasswordResetError(err error) string {
	var notifyErr *notification.NotifyError
	var storeErr *user.StoreError
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, user.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, user.ErrInvalidOrExpiredToken):
		return "invalid_token"
	case errors.Is(err, user.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, user.ErrWeakPassword):
		return "weak_password"
	case errors.Is(err, csrf.ErrInvalidCsrfToken):
		return "invalid_csrf"
	case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.As(err, &notifyErr):
		return "notify_failed"
	case errors.As(err, &storeErr):
		return "store_error"
	default:
		return "error"
	}
}
