package store

import (
	"context"
	"errors"

	"storefront-service/internal/models"
)

var (
	// ErrNotFound is returned when no order has the requested id
	ErrNotFound = errors.New("not found")
	// ErrDuplicateOrder is returned when an order id is appended twice
	ErrDuplicateOrder = errors.New("duplicate order id")
)

// OrderStore is an append-only record of placed orders
type OrderStore interface {
	Append(ctx context.Context, order models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
}

var (
	_ OrderStore = (*MemoryOrderStore)(nil)
	_ OrderStore = (*Store)(nil)
)

func cloneOrder(o models.Order) models.Order {
	if o.Items != nil {
		o.Items = append([]models.CheckoutItem(nil), o.Items...)
	}
	return o
}
