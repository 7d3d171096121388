package main

import (
	"context"
	"os"
	"os/signal"
	"streemi/internal/app/consumers"
	"streemi/internal/app/deps"
	"streemi/internal/app/services"
	"streemi/internal/core/domain/logging"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)
	consumers.InitConsumers(deps, services)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	log.Info(
		context.Background(),
		"Notification consumer has started.",
		logging.Entry("queue", deps.Config.RabbitmqNotificationQueue),
		logging.Entry("deliveryNotifier", deps.Config.DeliveryNotifier),
	)
	<-stopCh
	log.Info(context.Background(), "Notification consumer is stopping.")
}
