package worker

import (
	"context"

	"storefront-service/internal/broker"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// NewsletterWorker subscribes opted-in buyers from ORDER_PLACED events
type NewsletterWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNewsletterWorker creates a new newsletter worker
func NewNewsletterWorker(
	consumer *broker.Consumer,
	newsletter *service.NewsletterService,
) *NewsletterWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(newsletter.HandleOrderPlaced)

	return &NewsletterWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *NewsletterWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting newsletter worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the consumer
func (w *NewsletterWorker) Stop() error {
	w.logger.Info("Stopping newsletter worker")
	return w.consumer.Close()
}
