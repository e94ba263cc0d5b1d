package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	customer_id      TEXT NOT NULL,
	email            TEXT NOT NULL,
	items            JSONB NOT NULL,
	subtotal         NUMERIC(12,2) NOT NULL,
	tax              NUMERIC(12,2) NOT NULL,
	shipping         NUMERIC(12,2) NOT NULL,
	total            NUMERIC(12,2) NOT NULL,
	status           TEXT NOT NULL,
	shipping_address JSONB NOT NULL,
	billing_address  JSONB NOT NULL,
	newsletter       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
)`

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// Store is the Postgres-backed order store
type Store struct {
	db *sqlx.DB
}

// NewStore connects to Postgres and makes sure the orders table exists
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the orders table when missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, used by readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type orderRow struct {
	ID              string          `db:"id"`
	CustomerID      string          `db:"customer_id"`
	Email           string          `db:"email"`
	Items           []byte          `db:"items"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	Tax             decimal.Decimal `db:"tax"`
	Shipping        decimal.Decimal `db:"shipping"`
	Total           decimal.Decimal `db:"total"`
	Status          string          `db:"status"`
	ShippingAddress []byte          `db:"shipping_address"`
	BillingAddress  []byte          `db:"billing_address"`
	Newsletter      bool            `db:"newsletter"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func toRow(o models.Order) (orderRow, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderRow{}, fmt.Errorf("failed to encode items: %w", err)
	}
	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return orderRow{}, fmt.Errorf("failed to encode shipping address: %w", err)
	}
	billing, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return orderRow{}, fmt.Errorf("failed to encode billing address: %w", err)
	}

	return orderRow{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Email:           o.Email,
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Shipping:        o.Shipping,
		Total:           o.Total,
		Status:          string(o.Status),
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Newsletter:      o.Newsletter,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}, nil
}

func (r orderRow) order() (models.Order, error) {
	o := models.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Email:      r.Email,
		Subtotal:   r.Subtotal,
		Tax:        r.Tax,
		Shipping:   r.Shipping,
		Total:      r.Total,
		Status:     models.OrderStatus(r.Status),
		Newsletter: r.Newsletter,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode items: %w", err)
	}
	if err := json.Unmarshal(r.ShippingAddress, &o.ShippingAddress); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if err := json.Unmarshal(r.BillingAddress, &o.BillingAddress); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode billing address: %w", err)
	}
	return o, nil
}

// Append inserts a new order row
func (s *Store) Append(ctx context.Context, order models.Order) error {
	row, err := toRow(order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (id, customer_id, email, items, subtotal, tax, shipping, total,
			status, shipping_address, billing_address, newsletter, created_at, updated_at)
		VALUES (:id, :customer_id, :email, :items, :subtotal, :tax, :shipping, :total,
			:status, :shipping_address, :billing_address, :newsletter, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by id
func (s *Store) FindByID(ctx context.Context, id string) (models.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return row.order()
}
