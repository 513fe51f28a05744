package candidate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/transport"
	"github.com/talentgrid/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, actor *auth.User, id int64) (*Candidate, error)
	ListByJobRequest(ctx context.Context, actor *auth.User, jobRequestID int64) ([]*Candidate, error)
	UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Candidate, error)
	ListCandidatePool(ctx context.Context, actor *auth.User, limit, offset int) ([]*PoolEntry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid candidate ID")
		return
	}

	candidate, err := h.Service.GetByID(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, candidate)
}

func (h *Handler) ListByJobRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobRequestID, err := pathID(r, "jobRequestID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	candidates, err := h.Service.ListByJobRequest(r.Context(), actor, jobRequestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, candidates)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid candidate ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate, err := h.Service.UpdateStatus(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, candidate)
}

func (h *Handler) ListPool(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r)

	entries, err := h.Service.ListCandidatePool(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, entries)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
