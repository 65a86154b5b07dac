package subscription

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Handlers serves subscription HTTP endpoints.
type Handlers struct {
	Svc    *Service
	Logger zerolog.Logger
}

// Quote handles POST /subscriptions/quote.
func (h Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	quote, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Msg("quote failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, quote)
}

// Create handles POST /subscriptions.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	sub, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Msg("subscription create failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, sub)
}

// ListByCustomer handles GET /customers/{customerID}/subscriptions.
func (h Handlers) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "customer id must be a UUID", nil)
		return
	}
	subs, err := h.Svc.List(r.Context(), customerID)
	if err != nil {
		h.Logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("subscription list failed")
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

// Get handles GET /subscriptions/{subscriptionID}.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	h.withSubscription(w, r, h.Svc.Get)
}

// Cancel handles POST /subscriptions/{subscriptionID}/cancel.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.withSubscription(w, r, h.Svc.Cancel)
}

// Pause handles POST /subscriptions/{subscriptionID}/pause.
func (h Handlers) Pause(w http.ResponseWriter, r *http.Request) {
	h.withSubscription(w, r, h.Svc.Pause)
}

// Resume handles POST /subscriptions/{subscriptionID}/resume.
func (h Handlers) Resume(w http.ResponseWriter, r *http.Request) {
	h.withSubscription(w, r, h.Svc.Resume)
}

func (h Handlers) withSubscription(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (Subscription, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "subscriptionID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_SUBSCRIPTION_ID", "subscription id must be a UUID", nil)
		return
	}
	sub, err := op(r.Context(), id)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("subscription_id", id.String()).Msg("subscription operation failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, sub)
}
