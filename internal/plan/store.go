package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a plan does not exist.
var ErrNotFound = errors.New("plan not found")

// Querier abstracts plan persistence for the service layer.
type Querier interface {
	ListActive(ctx context.Context) ([]Plan, error)
	Get(ctx context.Context, id uuid.UUID) (Plan, error)
	Insert(ctx context.Context, p Plan) (Plan, error)
	Update(ctx context.Context, p Plan) (Plan, error)
}

// Store implements Querier on top of pgx.
type Store struct {
	Pool *pgxpool.Pool
}

const planColumns = "id, name, min_order_value, monthly_fee, medicine_discount, order_discount, frequency, position, active, created_at, updated_at"

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.Name, &p.MinOrderValue, &p.MonthlyFee, &p.MedicineDiscount,
		&p.OrderDiscount, &p.Frequency, &p.Position, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListActive returns active plans ordered by position ascending.
func (s Store) ListActive(ctx context.Context) ([]Plan, error) {
	rows, err := s.Pool.Query(ctx,
		"SELECT "+planColumns+" FROM plans WHERE active = true ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

// Get fetches one plan by id.
func (s Store) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	p, err := scanPlan(s.Pool.QueryRow(ctx,
		"SELECT "+planColumns+" FROM plans WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// Insert persists a new plan.
func (s Store) Insert(ctx context.Context, p Plan) (Plan, error) {
	saved, err := scanPlan(s.Pool.QueryRow(ctx, `
		INSERT INTO plans (id, name, min_order_value, monthly_fee, medicine_discount, order_discount, frequency, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+planColumns,
		p.ID, p.Name, p.MinOrderValue, p.MonthlyFee, p.MedicineDiscount,
		p.OrderDiscount, p.Frequency, p.Position, p.Active))
	if err != nil {
		return Plan{}, fmt.Errorf("insert plan: %w", err)
	}
	return saved, nil
}

// Update persists changes to an existing plan.
func (s Store) Update(ctx context.Context, p Plan) (Plan, error) {
	saved, err := scanPlan(s.Pool.QueryRow(ctx, `
		UPDATE plans
		SET name = $2, min_order_value = $3, monthly_fee = $4, medicine_discount = $5,
		    order_discount = $6, frequency = $7, position = $8, active = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+planColumns,
		p.ID, p.Name, p.MinOrderValue, p.MonthlyFee, p.MedicineDiscount,
		p.OrderDiscount, p.Frequency, p.Position, p.Active))
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("update plan: %w", err)
	}
	return saved, nil
}
