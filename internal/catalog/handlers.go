package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Handlers serves catalog HTTP endpoints.
type Handlers struct {
	Svc          *Service
	DefaultLimit int
	MaxLimit     int
	Logger       zerolog.Logger
}

// List handles GET /catalog/items.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.defaultLimit())
	if perPage > h.maxLimit() {
		perPage = h.maxLimit()
	}
	params := ListParams{
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
		Category:    strings.TrimSpace(r.URL.Query().Get("category")),
		InStockOnly: r.URL.Query().Get("in_stock") == "true",
		Page:        page,
		PerPage:     perPage,
	}
	result, err := h.Svc.List(r.Context(), params)
	if err != nil {
		h.Logger.Error().Err(err).Msg("catalog list failed")
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"items": result.Items,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: result.Total,
		},
	})
}

// Get handles GET /catalog/items/{itemID}.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ITEM_ID", "item id must be a UUID", nil)
		return
	}
	item, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("item_id", id.String()).Msg("catalog get failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, item)
}

func (h Handlers) defaultLimit() int {
	if h.DefaultLimit > 0 {
		return h.DefaultLimit
	}
	return 20
}

func (h Handlers) maxLimit() int {
	if h.MaxLimit > 0 {
		return h.MaxLimit
	}
	return 100
}
