package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

// Item is a catalog entry as stored and served by the API.
type Item struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Price     pricing.Money    `json:"price"`
	Category  pricing.Category `json:"category"`
	InStock   bool             `json:"in_stock"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PricingItem converts the catalog entry into the pricing engine's item shape.
func (i Item) PricingItem() pricing.Item {
	return pricing.Item{
		ID:       i.ID.String(),
		Name:     i.Name,
		Price:    i.Price,
		Category: i.Category,
		InStock:  i.InStock,
	}
}

// ListParams filters and paginates catalog listings.
type ListParams struct {
	Search      string
	Category    string
	InStockOnly bool
	Page        int
	PerPage     int
}

// IsDefault reports whether the listing is the unfiltered first page,
// which is the only page served from cache.
func (p ListParams) IsDefault() bool {
	return p.Search == "" && p.Category == "" && !p.InStockOnly && p.Page <= 1
}
