package account

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Handlers serves account HTTP endpoints.
type Handlers struct {
	Svc          *Service
	DefaultLimit int
	Logger       zerolog.Logger
}

// List handles GET /accounts.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	limit := h.DefaultLimit
	if limit <= 0 {
		limit = 20
	}
	page, perPage := common.ParsePagination(r, limit)
	f := Filter{
		Role:    Role(strings.ToLower(r.URL.Query().Get("role"))),
		Status:  Status(strings.ToLower(r.URL.Query().Get("status"))),
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
		Page:    page,
		PerPage: perPage,
	}
	result, err := h.Svc.List(r.Context(), f)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Msg("account list failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"accounts": result.Accounts,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: result.Total,
		},
	})
}

// Get handles GET /accounts/{accountID}.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, a)
}

// Create handles POST /accounts.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	a, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Msg("account create failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, a)
}

// Update handles PUT /accounts/{accountID}.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
		return
	}
	a, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("account_id", id.String()).Msg("account update failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, a)
}

// Activate handles POST /accounts/{accountID}/activate.
func (h Handlers) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusActive)
}

// Deactivate handles POST /accounts/{accountID}/deactivate.
func (h Handlers) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, StatusInactive)
}

// Delete handles DELETE /accounts/{accountID}.
func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("account_id", id.String()).Msg("account delete failed")
		}
		common.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) setStatus(w http.ResponseWriter, r *http.Request, status Status) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	a, err := h.Svc.SetStatus(r.Context(), id, status)
	if err != nil {
		if !common.IsAppError(err) {
			h.Logger.Error().Err(err).Str("account_id", id.String()).Msg("account status change failed")
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, a)
}

func (h Handlers) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_ACCOUNT_ID", "account id must be a UUID", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
