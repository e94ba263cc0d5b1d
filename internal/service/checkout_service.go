package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderPlacedMessage is returned with every successful checkout
const OrderPlacedMessage = "Order placed successfully!"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCheckoutInProgress = errors.New("checkout with this idempotency key is already in progress")
)

// OrderEventPublisher emits domain events for placed orders
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// IdempotencyGuard remembers which order a checkout key produced
type IdempotencyGuard interface {
	GetIdempotencyKey(ctx context.Context, key string) (string, bool, error)
	SetIdempotencyKey(ctx context.Context, key, orderID string) error
	AcquireLock(ctx context.Context, key string) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// CheckoutService validates checkouts and builds orders
type CheckoutService struct {
	validator   *validation.CheckoutValidator
	orders      store.OrderStore
	payments    *PaymentService
	events      OrderEventPublisher
	idempotency IdempotencyGuard
	now         func() time.Time
	logger      *zap.Logger
}

type CheckoutOption func(*CheckoutService)

// WithEventPublisher publishes ORDER_PLACED after each order
func WithEventPublisher(p OrderEventPublisher) CheckoutOption {
	return func(s *CheckoutService) { s.events = p }
}

// WithIdempotency enables Idempotency-Key handling
func WithIdempotency(g IdempotencyGuard) CheckoutOption {
	return func(s *CheckoutService) { s.idempotency = g }
}

// WithClock overrides the order timestamp source
func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	validator *validation.CheckoutValidator,
	orders store.OrderStore,
	payments *PaymentService,
	opts ...CheckoutOption,
) *CheckoutService {
	s := &CheckoutService{
		validator: validator,
		orders:    orders,
		payments:  payments,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckoutResult is the confirmation returned to the storefront
type CheckoutResult struct {
	Success bool         `json:"success"`
	OrderID string       `json:"orderId"`
	Order   models.Order `json:"order"`
	Message string       `json:"message"`
	// Replayed is set when the idempotency key matched an earlier order
	Replayed bool `json:"-"`
}

// Validate runs the checkout rules without placing an order
func (s *CheckoutService) Validate(ctx context.Context, sub models.CheckoutSubmission) (models.CheckoutSubmission, error) {
	_, span := util.StartSpan(ctx, "CheckoutService.Validate")
	defer span.End()

	normalized, err := s.validator.Validate(sub)
	if err != nil {
		recordViolations(err)
		return models.CheckoutSubmission{}, err
	}
	return normalized, nil
}

// ProcessCheckout validates the submission, prices it, authorizes payment and
// records the order. A non-empty idempotencyKey returns the earlier order for
// a repeated key when an IdempotencyGuard is configured.
func (s *CheckoutService) ProcessCheckout(ctx context.Context, sub models.CheckoutSubmission, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.ProcessCheckout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	useKey := idempotencyKey != "" && s.idempotency != nil
	if useKey {
		if result, err := s.replay(ctx, idempotencyKey); result != nil || err != nil {
			return result, err
		}

		token, ok, err := s.idempotency.AcquireLock(ctx, idempotencyKey)
		if err != nil {
			util.CheckoutsTotal.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("failed to lock checkout: %w", err)
		}
		if !ok {
			util.CheckoutsTotal.WithLabelValues("conflict").Inc()
			return nil, ErrCheckoutInProgress
		}
		defer func() {
			// the request context may already be gone
			if err := s.idempotency.ReleaseLock(context.Background(), idempotencyKey, token); err != nil {
				s.logger.Warn("Failed to release checkout lock", zap.String("idempotency_key", idempotencyKey), zap.Error(err))
			}
		}()

		if result, err := s.replay(ctx, idempotencyKey); result != nil || err != nil {
			return result, err
		}
	}

	normalized, err := s.validator.Validate(sub)
	if err != nil {
		util.CheckoutsTotal.WithLabelValues("invalid").Inc()
		recordViolations(err)
		return nil, err
	}

	order := s.buildOrder(normalized)

	if err := s.payments.Authorize(ctx, order, normalized.Payment); err != nil {
		util.CheckoutsTotal.WithLabelValues("aborted").Inc()
		return nil, err
	}

	if err := s.orders.Append(ctx, order); err != nil {
		util.CheckoutsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	util.CheckoutsTotal.WithLabelValues("success").Inc()
	util.OrdersPlacedTotal.Inc()
	total, _ := order.Total.Float64()
	util.OrderRevenueTotal.Add(total)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)))

	if useKey {
		if err := s.idempotency.SetIdempotencyKey(ctx, idempotencyKey, order.ID); err != nil {
			s.logger.Error("Failed to store idempotency key",
				zap.String("idempotency_key", idempotencyKey),
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}

	s.publishOrderPlaced(ctx, order)

	return &CheckoutResult{
		Success: true,
		OrderID: order.ID,
		Order:   order,
		Message: OrderPlacedMessage,
	}, nil
}

func (s *CheckoutService) replay(ctx context.Context, key string) (*CheckoutResult, error) {
	orderID, found, err := s.idempotency.GetIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if !found {
		return nil, nil
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s for idempotency key: %w", orderID, err)
	}

	util.CheckoutsTotal.WithLabelValues("replayed").Inc()
	s.logger.Info("Duplicate checkout request detected",
		zap.String("idempotency_key", key),
		zap.String("order_id", order.ID))

	return &CheckoutResult{
		Success:  true,
		OrderID:  order.ID,
		Order:    order,
		Message:  OrderPlacedMessage,
		Replayed: true,
	}, nil
}

func (s *CheckoutService) buildOrder(sub models.CheckoutSubmission) models.Order {
	now := s.now()
	totals := pricing.CheckoutTotals(sub.Items)

	billing := sub.BillingAddress.Explicit()
	if sub.BillingAddress.SameAsShipping {
		billing = sub.Shipping.Billing()
	}

	return models.Order{
		ID:              newOrderID(now),
		CustomerID:      fmt.Sprintf("CUST-%d", now.UnixMilli()),
		Email:           sub.Email,
		Items:           sub.Items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Status:          models.OrderStatusPending,
		ShippingAddress: sub.Shipping,
		BillingAddress:  billing,
		Newsletter:      sub.Newsletter,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// newOrderID returns ORD-<unix millis>-<9 random chars>
func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order models.Order) {
	if s.events == nil {
		return
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: s.now(),
		},
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Email:      order.Email,
		Newsletter: order.Newsletter,
		Total:      order.Total,
		Items:      order.Items,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		util.EventsPublishedTotal.WithLabelValues(models.EventTypeOrderPlaced, "failed").Inc()
		s.logger.Error("Failed to publish OrderPlaced event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(models.EventTypeOrderPlaced, "published").Inc()
}

// GetOrder returns a placed order or ErrOrderNotFound
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.GetOrder")
	defer span.End()

	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// CalculateTotals quotes a cart for an optional destination
func (s *CheckoutService) CalculateTotals(ctx context.Context, items []models.CheckoutItem, addr *models.QuoteAddress) (pricing.Quote, error) {
	_, span := util.StartSpan(ctx, "CheckoutService.CalculateTotals")
	defer span.End()

	if err := s.validator.ValidateItems(items); err != nil {
		return pricing.Quote{}, err
	}
	return pricing.QuoteTotals(items, addr), nil
}

// CartSummary returns the checkout page estimate
func (s *CheckoutService) CartSummary(ctx context.Context, items []models.CheckoutItem) (pricing.Totals, error) {
	_, span := util.StartSpan(ctx, "CheckoutService.CartSummary")
	defer span.End()

	if err := s.validator.ValidateItems(items); err != nil {
		return pricing.Totals{}, err
	}
	return pricing.CartSummary(items), nil
}

func recordViolations(err error) {
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, v := range verr.Violations {
		field := "unknown"
		if len(v.Path) > 0 {
			field = v.Path[0]
		}
		util.ValidationViolationsTotal.WithLabelValues(field).Inc()
	}
}
