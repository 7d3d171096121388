package notification

import (
	"context"
	"fmt"
	c "streemi/internal/core/domain/common"
	"sync"
)

type FakeNotifier struct {
	Sent        []Message
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Send(ctx context.Context, to c.Email, template TemplateID, context Context) error {
	if n.ReturnError {
		return fmt.Errorf("could not send %s to %s", template, to)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, Message{To: to, Template: template, Context: context})
	return nil
}

func (n *FakeNotifier) SentCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.Sent)
}

func (n *FakeNotifier) LastSent() Message {
	n.lock.Lock()
	defer n.lock.Unlock()
	l := len(n.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return n.Sent[l-1]
}
