package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"streemi/internal/core/domain/notification"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"streemi/internal/core/domain/user"
	"streemi/internal/core/services/csrf"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	err error
}

func (s *stubService) Run(ctx context.Context, input string) (string, error) {
	return input, s.err
}

func TestOutcomeCounting(t *testing.T) {
	recorder := NewFakeOutcomeRecorder()
	inner := &stubService{}
	service := WithOutcomeCounting[string, string](recorder, "complete_reset", ClassifyPasswordResetError, inner)

	result, err := service.Run(context.Background(), "ok")
	require.NoError(t, err)
	require.Equal(t, "ok", result)

	inner.err = user.ErrPasswordMismatch
	_, err = service.Run(context.Background(), "mismatch")
	require.ErrorIs(t, err, user.ErrPasswordMismatch)

	require.Equal(t, []string{OutcomeOK, "password_mismatch"}, recorder.Outcomes["complete_reset"])
}

func TestClassifyPasswordResetError(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{err: user.ErrAccountNotFound, expected: "account_not_found"},
		{err: user.ErrInvalidOrExpiredToken, expected: "invalid_token"},
		{err: user.ErrPasswordMismatch, expected: "password_mismatch"},
		{err: user.ErrWeakPassword, expected: "weak_password"},
		{err: csrf.ErrInvalidCsrfToken, expected: "invalid_csrf"},
		{err: ratelimiter.ErrRateLimitExceeded, expected: "rate_limited"},
		{err: &notification.NotifyError{Template: notification.PasswordReset, Err: errors.New("smtp")}, expected: "notify_failed"},
		{err: user.NewStoreError("get", errors.New("timeout")), expected: "store_error"},
		{err: fmt.Errorf("wrapped: %w", context.Canceled), expected: "canceled"},
		{err: errors.New("boom"), expected: "error"},
	}
	for _, testcase := range cases {
		t.Run(testcase.expected, func(t *testing.T) {
			require.Equal(t, testcase.expected, ClassifyPasswordResetError(testcase.err))
		})
	}
}
