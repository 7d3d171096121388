package notificationrequested

import (
	"context"
	"streemi/internal/core/domain/common"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	"streemi/internal/core/services"
	delivernotification "streemi/internal/core/services/deliver_notification"
	"streemi/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

// DeliveryChannel is the subset of the channel the consumer reads from.
type DeliveryChannel interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

type Consumer struct {
	log     logging.Logger
	channel DeliveryChannel
	queue   string
	service services.Service[delivernotification.Input, delivernotification.Result]
}

func New(
	log logging.Logger,
	channel DeliveryChannel,
	queue string,
	service services.Service[delivernotification.Input, delivernotification.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic(e.NewEmptyArgumentError("queue"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

// Consume starts handling deliveries in the background. A failed delivery is
// requeued once; a second failure drops the message.
func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.Handle(context.Background(), delivery)
		}
	}()
	return nil
}

func (c *Consumer) Handle(ctx context.Context, delivery amqp091.Delivery) {
	msg := &schema.Notification{}
	if err := msg.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal notification.",
			logging.Entry("err", err),
			logging.Entry("deliveryTag", delivery.DeliveryTag),
		)
		c.ack(ctx, delivery)
		return
	}

	c.log.Info(ctx, "Got notification for delivery.", logging.Entry("template", msg.Template))
	_, err := c.service.Run(ctx, delivernotification.Input{Message: toMessage(msg)})
	if err != nil {
		c.log.Error(
			ctx,
			"Could not deliver notification, service returned an error.",
			logging.Entry("template", msg.Template),
			logging.Entry("redelivered", delivery.Redelivered),
			logging.Entry("err", err),
		)
		c.nack(ctx, delivery, !delivery.Redelivered)
		return
	}
	c.ack(ctx, delivery)
}

func toMessage(msg *schema.Notification) notification.Message {
	return notification.Message{
		To:       common.NewEmail(msg.To),
		Template: notification.TemplateID(msg.Template),
		Context:  notification.Context(msg.Context),
	}
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) nack(ctx context.Context, delivery amqp091.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
	}
}
