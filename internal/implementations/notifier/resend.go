package notifier

import (
	"context"
	"fmt"

	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/notification"

	"github.com/resend/resend-go/v3"
)

type Resend struct {
	client   *resend.Client
	from     string
	renderer *Renderer
}

func NewResend(apiKey string, from string, renderer *Renderer) *Resend {
	return &Resend{
		client:   resend.NewClient(apiKey),
		from:     from,
		renderer: renderer,
	}
}

func (r *Resend) Send(
	ctx context.Context,
	to c.Email,
	template notification.TemplateID,
	context notification.Context,
) error {
	rendered, err := r.renderer.Render(template, context)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{string(to)},
		Subject: rendered.Subject,
		Html:    rendered.HTML,
		Text:    rendered.Text,
	}
	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("could not send %s email: %w", template, err)
	}
	return nil
}
