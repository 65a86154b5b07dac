package address

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Handlers exposes address validation and the recent-address cache.
type Handlers struct {
	Cache  Cache
	Logger zerolog.Logger
}

// Validate checks a delivery address without persisting anything.
// POST /addresses/validate
func (h Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var addr Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"valid":   addr.Valid(),
		"address": addr,
	})
}

// Recent returns the customer's recently used delivery addresses.
// GET /customers/{customerID}/addresses/recent
func (h Handlers) Recent(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		common.JSONError(w, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "customer id is required", nil)
		return
	}
	addresses, err := h.Cache.Recent(r.Context(), customerID)
	if err != nil {
		h.Logger.Error().Err(err).Str("customer_id", customerID).Msg("recent addresses lookup failed")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "could not load recent addresses", nil)
		return
	}
	if addresses == nil {
		addresses = []Address{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}
