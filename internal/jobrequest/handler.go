package jobrequest

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
	Create(ctx context.Context, actor *auth.User, organizationID int64, dto CreateJobRequestDTO) (*JobRequest, error)
	GetByID(ctx context.Context, actor *auth.User, id int64) (*JobRequest, error)
	List(ctx context.Context, actor *auth.User, organizationID int64, limit, offset int) ([]*JobRequest, error)
	Update(ctx context.Context, actor *auth.User, id int64, dto UpdateJobRequestDTO) (*JobRequest, error)
	UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*JobRequest, error)
	AssignHR(ctx context.Context, actor *auth.User, id int64, dto AssignHRDTO) (*JobRequest, error)
	PushCandidates(ctx context.Context, actor *auth.User, id int64, dto PushCandidatesDTO) (*PushCandidatesResult, error)
	Statistics(ctx context.Context, actor *auth.User, organizationID int64) (*StatisticsView, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	organizationID, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto CreateJobRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobRequest, err := h.Service.Create(r.Context(), actor, organizationID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, jobRequest)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	jobRequest, err := h.Service.GetByID(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, jobRequest)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	organizationID, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	limit, offset := pagination(r)

	jobRequests, err := h.Service.List(r.Context(), actor, organizationID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"job_requests": jobRequests,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	var dto UpdateJobRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobRequest, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, jobRequest)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobRequest, err := h.Service.UpdateStatus(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, jobRequest)
}

func (h *Handler) AssignHR(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "jobRequestID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	var dto AssignHRDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobRequest, err := h.Service.AssignHR(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("AssignHR: HR assigned", "job_request_id", id, "hr_user_id", dto.HRUserID)
	h.WriteData(w, http.StatusOK, jobRequest)
}

func (h *Handler) PushCandidates(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "jobRequestID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid job request ID")
		return
	}

	var dto PushCandidatesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.PushCandidates(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, result.Message, map[string]interface{}{
		"candidates": result.Candidates,
	})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	organizationID, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	stats, err := h.Service.Statistics(r.Context(), actor, organizationID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, stats)
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
