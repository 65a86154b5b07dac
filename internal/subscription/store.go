package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a subscription does not exist.
var ErrNotFound = errors.New("subscription not found")

// Querier abstracts subscription persistence for the service layer.
type Querier interface {
	CreateWithItems(ctx context.Context, sub Subscription) (Subscription, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Subscription, error)
	Get(ctx context.Context, id uuid.UUID) (Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Subscription, error)
	UpdateNextDelivery(ctx context.Context, id uuid.UUID, next time.Time) error
}

// Store implements Querier on top of pgx.
type Store struct {
	Pool *pgxpool.Pool
}

const subColumns = `id, customer_id, plan_id, frequency, status, subtotal, order_discount,
	monthly_fee, total, delivery_address, delivery_instructions, next_delivery_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (Subscription, error) {
	var (
		sub     Subscription
		addrRaw []byte
	)
	err := row.Scan(&sub.ID, &sub.CustomerID, &sub.PlanID, &sub.Frequency, &sub.Status,
		&sub.Subtotal, &sub.OrderDiscount, &sub.MonthlyFee, &sub.Total,
		&addrRaw, &sub.DeliveryInstructions, &sub.NextDeliveryAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return Subscription{}, err
	}
	if len(addrRaw) > 0 {
		if err := json.Unmarshal(addrRaw, &sub.DeliveryAddress); err != nil {
			return Subscription{}, fmt.Errorf("decode delivery address: %w", err)
		}
	}
	return sub, nil
}

// CreateWithItems inserts the subscription and its lines in one transaction.
func (s Store) CreateWithItems(ctx context.Context, sub Subscription) (Subscription, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return Subscription{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	addrRaw, err := json.Marshal(sub.DeliveryAddress)
	if err != nil {
		return Subscription{}, fmt.Errorf("encode delivery address: %w", err)
	}
	saved, err := scanSubscription(tx.QueryRow(ctx, `
		INSERT INTO subscriptions (id, customer_id, plan_id, frequency, status, subtotal, order_discount,
			monthly_fee, total, delivery_address, delivery_instructions, next_delivery_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+subColumns,
		sub.ID, sub.CustomerID, sub.PlanID, sub.Frequency, sub.Status,
		sub.Subtotal, sub.OrderDiscount, sub.MonthlyFee, sub.Total,
		addrRaw, sub.DeliveryInstructions, sub.NextDeliveryAt))
	if err != nil {
		return Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}

	for _, item := range sub.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO subscription_items (id, subscription_id, item_id, name, unit_type, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, saved.ID, item.ItemID, item.Name, item.UnitType, item.UnitPrice, item.Quantity); err != nil {
			return Subscription{}, fmt.Errorf("insert subscription item: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Subscription{}, fmt.Errorf("commit tx: %w", err)
	}
	saved.Items = sub.Items
	return saved, nil
}

// ListByCustomer returns the customer's subscriptions, newest first, with items.
func (s Store) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Subscription, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+subColumns+" FROM subscriptions WHERE customer_id = $1 ORDER BY created_at DESC", customerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	for i := range subs {
		items, err := s.listItems(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
		subs[i].Items = items
	}
	return subs, nil
}

// Get fetches one subscription with its items.
func (s Store) Get(ctx context.Context, id uuid.UUID) (Subscription, error) {
	sub, err := scanSubscription(s.Pool.QueryRow(ctx,
		"SELECT "+subColumns+" FROM subscriptions WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	items, err := s.listItems(ctx, id)
	if err != nil {
		return Subscription{}, err
	}
	sub.Items = items
	return sub, nil
}

// UpdateStatus sets the subscription status and returns the updated row.
func (s Store) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Subscription, error) {
	sub, err := scanSubscription(s.Pool.QueryRow(ctx, `
		UPDATE subscriptions SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+subColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	if err != nil {
		return Subscription{}, fmt.Errorf("update subscription status: %w", err)
	}
	return sub, nil
}

// UpdateNextDelivery advances the next delivery timestamp.
func (s Store) UpdateNextDelivery(ctx context.Context, id uuid.UUID, next time.Time) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE subscriptions SET next_delivery_at = $2, updated_at = now()
		WHERE id = $1`, id, next)
	if err != nil {
		return fmt.Errorf("update next delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s Store) listItems(ctx context.Context, subID uuid.UUID) ([]Item, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, item_id, name, unit_type, unit_price, quantity
		FROM subscription_items WHERE subscription_id = $1 ORDER BY name`, subID)
	if err != nil {
		return nil, fmt.Errorf("list subscription items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ItemID, &item.Name, &item.UnitType, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan subscription item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription items: %w", err)
	}
	return items, nil
}
