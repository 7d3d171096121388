package instrumentation

import (
	"context"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/services"
)

// OutcomeRecorder counts how use cases end. outcome is "ok" or a short
// error class produced by the classify function given to WithOutcomeCounting.
type OutcomeRecorder interface {
	RecordOutcome(operation string, outcome string)
}

const OutcomeOK = "ok"

type service[T any, S any] struct {
	recorder  OutcomeRecorder
	operation string
	classify  func(error) string
	inner     services.Service[T, S]
}

func WithOutcomeCounting[T any, S any](
	recorder OutcomeRecorder,
	operation string,
	classify func(error) string,
	inner services.Service[T, S],
) services.Service[T, S] {
	if recorder == nil {
		panic(e.NewNilArgumentError("recorder"))
	}
	if operation == "" {
		panic(e.NewEmptyArgumentError("operation"))
	}
	if classify == nil {
		panic(e.NewNilArgumentError("classify"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		recorder:  recorder,
		operation: operation,
		classify:  classify,
		inner:     inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	result, err = s.inner.Run(ctx, input)
	if err == nil {
		s.recorder.RecordOutcome(s.operation, OutcomeOK)
	} else {
		s.recorder.RecordOutcome(s.operation, s.classify(err))
	}
	return result, err
}
