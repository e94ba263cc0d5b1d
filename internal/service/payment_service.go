package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// PaymentService authorizes card payments (mocked). Every well-formed card is
// approved after a fixed processing delay.
type PaymentService struct {
	delay  time.Duration
	logger *zap.Logger
}

// NewPaymentService creates a payment service with the given simulated latency
func NewPaymentService(delay time.Duration) *PaymentService {
	return &PaymentService{
		delay:  delay,
		logger: util.GetLogger(),
	}
}

// Authorize waits out the processing delay. It returns the context error if the
// caller gives up first, in which case nothing was charged.
func (ps *PaymentService) Authorize(ctx context.Context, order models.Order, card models.PaymentDetails) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.Authorize")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PaymentAuthorizationLatency.Observe(time.Since(start).Seconds())
	}()

	ps.logger.Info("Authorizing payment",
		zap.String("order_id", order.ID),
		zap.String("amount", order.Total.StringFixed(2)),
		zap.String("card_last4", lastFour(card.CardNumber)))

	if ps.delay > 0 {
		timer := time.NewTimer(ps.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			ps.logger.Warn("Payment authorization abandoned",
				zap.String("order_id", order.ID),
				zap.Error(ctx.Err()))
			return fmt.Errorf("payment authorization aborted: %w", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return fmt.Errorf("payment authorization aborted: %w", err)
	}

	ps.logger.Info("Payment authorized", zap.String("order_id", order.ID))
	return nil
}

func lastFour(cardNumber string) string {
	if len(cardNumber) < 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
