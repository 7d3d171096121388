package notificationsender

import (
	"context"
	c "streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	"streemi/internal/rabbitmq/schema"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher is the subset of the channel used for publishing.
type Publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
}

// RabbitMQ is a notifier that queues notifications for the notifier
// process instead of delivering them in the request path.
type RabbitMQ struct {
	log        logging.Logger
	channel    Publisher
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewRabbitMQ(
	log logging.Logger,
	channel Publisher,
	exchange string,
	routingKey string,
	now func() time.Time,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if routingKey == "" {
		panic(e.NewEmptyArgumentError("routingKey"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey, now: now}
}

func (s *RabbitMQ) Send(
	ctx context.Context,
	to c.Email,
	template notification.TemplateID,
	context notification.Context,
) error {
	msg := schema.Notification{
		To:          string(to),
		Template:    string(template),
		Context:     context,
		RequestedAt: s.now(),
	}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    msg.RequestedAt,
		Body:         body,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not publish AMQP message.",
			logging.Entry("exchange", s.exchange),
			logging.Entry("RK", s.routingKey),
			logging.Entry("err", err),
		)
		return err
	}
	s.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("template", template),
	)
	return nil
}
