package instrumentation

import "sync"

type FakeOutcomeRecorder struct {
	Outcomes map[string][]string
	lock     sync.Mutex
}

func NewFakeOutcomeRecorder() *FakeOutcomeRecorder {
	return &FakeOutcomeRecorder{Outcomes: make(map[string][]string)}
}

func (r *FakeOutcomeRecorder) RecordOutcome(operation string, outcome string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Outcomes[operation] = append(r.Outcomes[operation], outcome)
}
