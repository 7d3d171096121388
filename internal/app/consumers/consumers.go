package consumers

import (
	"context"
	"streemi/internal/app/deps"
	"streemi/internal/app/services"
	dl "streemi/internal/core/domain/logging"
	notificationrequested "streemi/internal/rabbitmq/consumers/notification_requested"
)

func initNotificationRequestedConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue, err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqNotificationQueue)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.Qos(10, 0, false); err != nil {
		deps.Logger.Error(context.Background(), "Could not set RabbitMQ prefetch count.", dl.Entry("err", err))
		panic(err)
	}

	notificationRequestedConsumer := notificationrequested.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		services.DeliverNotification,
	)
	if err = notificationRequestedConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	if deps.Rabbitmq == nil {
		panic("RABBITMQ_URL must be set to run consumers")
	}
	shutdownNotificationRequestedConsumer := initNotificationRequestedConsumer(deps, services)

	return func() {
		shutdownNotificationRequestedConsumer()
	}
}
