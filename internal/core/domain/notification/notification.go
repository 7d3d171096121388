package notification

import (
	"context"
	"fmt"
	c "streemi/internal/core/domain/common"
)

type TemplateID string

const PasswordReset = TemplateID("password_reset")

// Context holds the string values a template is rendered with.
type Context map[string]string

const (
	ContextResetToken = "resetToken"
	ContextResetURL   = "resetUrl"
	ContextUserEmail  = "userEmail"
)

type Message struct {
	To       c.Email
	Template TemplateID
	Context  Context
}

type Notifier interface {
	Send(ctx context.Context, to c.Email, template TemplateID, context Context) error
}

// NotifyError wraps a delivery failure. It does not undo whatever the caller
// committed before sending.
type NotifyError struct {
	Template TemplateID
	Err      error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("could not deliver %s notification: %v", e.Template, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
