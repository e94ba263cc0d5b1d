package service

import (
	"context"
	"strings"
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// NewsletterService keeps the mailing list (mocked, in memory)
type NewsletterService struct {
	mu          sync.RWMutex
	subscribers map[string]struct{}
	logger      *zap.Logger
}

func NewNewsletterService() *NewsletterService {
	return &NewsletterService{
		subscribers: make(map[string]struct{}),
		logger:      util.GetLogger(),
	}
}

// Subscribe adds an email. It reports false when the address was already on the list.
func (ns *NewsletterService) Subscribe(ctx context.Context, email string) bool {
	_, span := util.StartSpan(ctx, "NewsletterService.Subscribe")
	defer span.End()

	key := strings.ToLower(strings.TrimSpace(email))

	ns.mu.Lock()
	_, exists := ns.subscribers[key]
	if !exists {
		ns.subscribers[key] = struct{}{}
	}
	ns.mu.Unlock()

	if exists {
		util.NewsletterSubscriptionsTotal.WithLabelValues("duplicate").Inc()
		return false
	}

	util.NewsletterSubscriptionsTotal.WithLabelValues("subscribed").Inc()
	ns.logger.Info("Newsletter subscription added", zap.String("email", key))
	return true
}

// IsSubscribed reports whether email is on the list
func (ns *NewsletterService) IsSubscribed(email string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, ok := ns.subscribers[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Count returns the list size
func (ns *NewsletterService) Count() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.subscribers)
}

// HandleOrderPlaced subscribes buyers who opted in at checkout
func (ns *NewsletterService) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if !event.Newsletter || event.Email == "" {
		return nil
	}
	ns.Subscribe(ctx, event.Email)
	return nil
}

// InProcessPublisher delivers order events straight to local handlers when no
// broker is configured
type InProcessPublisher struct {
	handlers []func(context.Context, *models.OrderPlacedEvent) error
}

func NewInProcessPublisher(handlers ...func(context.Context, *models.OrderPlacedEvent) error) *InProcessPublisher {
	return &InProcessPublisher{handlers: handlers}
}

func (p *InProcessPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	for _, h := range p.handlers {
		if err := h(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
