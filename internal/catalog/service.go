package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

const cacheKeyDefaultPage = "catalog:items:default"

// Page bundles a page of catalog items with the total match count.
type Page struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// Service serves catalog listings with a redis cache on the default page.
type Service struct {
	Q        Querier
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// List returns a page of catalog items. The unfiltered first page is
// served from cache when possible.
func (s *Service) List(ctx context.Context, params ListParams) (Page, error) {
	cacheable := params.IsDefault() && s.Redis != nil && s.CacheTTL > 0
	if cacheable {
		if raw, err := s.Redis.Get(ctx, cacheKeyDefaultPage).Result(); err == nil {
			var page Page
			if jsonErr := json.Unmarshal([]byte(raw), &page); jsonErr == nil {
				return page, nil
			}
		}
	}

	items, total, err := s.Q.ListItems(ctx, params)
	if err != nil {
		return Page{}, fmt.Errorf("list catalog: %w", err)
	}
	page := Page{Items: items, Total: total}

	if cacheable {
		if payload, err := json.Marshal(page); err == nil {
			if err := s.Redis.Set(ctx, cacheKeyDefaultPage, payload, s.CacheTTL).Err(); err != nil {
				s.Logger.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
	}
	return page, nil
}

// Get fetches one catalog item.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	item, err := s.Q.GetItem(ctx, id)
	if err == ErrNotFound {
		return Item{}, common.NewAppError("ITEM_NOT_FOUND", "catalog item not found", http.StatusNotFound, err)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get catalog: %w", err)
	}
	return item, nil
}

// ResolveItems fetches the given catalog ids and returns them in the
// pricing engine's item shape, keyed by id string.
func (s *Service) ResolveItems(ctx context.Context, ids []uuid.UUID) (map[string]pricing.Item, error) {
	out := make(map[string]pricing.Item, len(ids))
	for _, id := range ids {
		item, err := s.Q.GetItem(ctx, id)
		if err == ErrNotFound {
			return nil, common.NewAppError("ITEM_NOT_FOUND", fmt.Sprintf("catalog item %s not found", id), http.StatusUnprocessableEntity, err)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve catalog item: %w", err)
		}
		out[id.String()] = item.PricingItem()
	}
	return out, nil
}
