package notifier

import (
	"context"
	"crypto/tls"
	"time"

	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/notification"

	mail "github.com/go-mail/mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// SSL switches from STARTTLS to implicit TLS.
	SSL     bool
	Timeout time.Duration
}

type SMTP struct {
	config   SMTPConfig
	renderer *Renderer
}

func NewSMTP(config SMTPConfig, renderer *Renderer) *SMTP {
	return &SMTP{config: config, renderer: renderer}
}

func (s *SMTP) Send(
	ctx context.Context,
	to c.Email,
	template notification.TemplateID,
	context notification.Context,
) error {
	rendered, err := s.renderer.Render(template, context)
	if err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", string(to))
	m.SetHeader("Subject", rendered.Subject)
	m.SetBody("text/plain", rendered.Text)
	m.AddAlternative("text/html", rendered.HTML)

	d := mail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	d.TLSConfig = &tls.Config{ServerName: s.config.Host}
	d.SSL = s.config.SSL
	if s.config.Timeout > 0 {
		d.Timeout = s.config.Timeout
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return d.DialAndSend(m)
}
