package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// Querier abstracts catalog persistence for the service layer.
type Querier interface {
	ListItems(ctx context.Context, params ListParams) ([]Item, int, error)
	GetItem(ctx context.Context, id uuid.UUID) (Item, error)
}

// Store implements Querier on top of pgx.
type Store struct {
	Pool *pgxpool.Pool
}

const itemColumns = "id, name, price, category, in_stock, created_at, updated_at"

// ListItems returns a page of catalog items plus the total match count.
func (s Store) ListItems(ctx context.Context, params ListParams) ([]Item, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, "lower(name) LIKE $"+strconv.Itoa(len(args)))
	}
	if params.Category != "" {
		args = append(args, params.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if params.InStockOnly {
		where = append(where, "in_stock = true")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM catalog_items WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count catalog items: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(
		"SELECT %s FROM catalog_items WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		itemColumns, cond, len(args)-1, len(args),
	)
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0, perPage)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.InStock, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate catalog items: %w", err)
	}
	return items, total, nil
}

// GetItem fetches one catalog item by id.
func (s Store) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	var item Item
	err := s.Pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM catalog_items WHERE id = $1", id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.InStock, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("get catalog item: %w", err)
	}
	return item, nil
}
