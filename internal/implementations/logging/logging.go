package logging

import (
	"context"
	"fmt"
	"streemi/internal/core/domain/logging"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type ZapLogger struct {
	logger        *zap.Logger
	sugar         *zap.SugaredLogger
	captureErrors bool
}

// NewZapLogger builds a production zap logger. With captureErrors set,
// every Error record is also reported to Sentry.
func NewZapLogger(captureErrors bool) *ZapLogger {
	logger, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return newZapLogger(logger, captureErrors)
}

func newZapLogger(logger *zap.Logger, captureErrors bool) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar(), captureErrors: captureErrors}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(entries...)...)
	if l.captureErrors {
		capture(ctx, msg, entries...)
	}
}

func capture(ctx context.Context, msg string, entries ...logging.LogEntry) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		var cause error
		for _, e := range entries {
			if err, ok := e.Value.(error); ok && cause == nil {
				cause = err
				continue
			}
			scope.SetExtra(e.Key, fmt.Sprint(e.Value))
		}
		if cause != nil {
			scope.SetExtra("msg", msg)
			hub.CaptureException(cause)
			return
		}
		hub.CaptureMessage(msg)
	})
}

func prepareArgs(entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
