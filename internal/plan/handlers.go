package plan

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Handlers serves plan HTTP endpoints.
type Handlers struct {
	Svc    *Service
	Logger zerolog.Logger
}

// List handles GET /plans.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Svc.ListActive(r.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("plan list failed")
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// Get handles GET /plans/{planID}.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_PLAN_ID", "plan id must be a UUID", nil)
		return
	}
	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, p)
}

// Create handles POST /admin/plans.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var in SaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	p, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Msg("plan create failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/plans/{planID}.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_PLAN_ID", "plan id must be a UUID", nil)
		return
	}
	var in SaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	p, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("plan_id", id.String()).Msg("plan update failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, p)
}
