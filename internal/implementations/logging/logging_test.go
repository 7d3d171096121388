package logging

import (
	"context"
	"errors"
	"streemi/internal/core/domain/logging"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesBecomeStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newZapLogger(zap.New(core), false)

	log.Info(context.Background(), "Password reset token issued.", logging.Entry("accountID", 42))
	log.Error(context.Background(), "Could not commit.", logging.Entry("err", errors.New("boom")))

	entries := logs.AllUntimed()
	assert.Len(t, entries, 2)
	assert.Equal(t, "Password reset token issued.", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(42), entries[0].ContextMap()["accountID"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["err"])
}
