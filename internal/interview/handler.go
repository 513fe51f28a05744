package interview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/transport"
	"github.com/talentgrid/hiring-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *auth.User, dto *CreateInterviewDTO) (*Interview, error)
	GetByID(ctx context.Context, actor *auth.User, id int64) (*Interview, error)
	Update(ctx context.Context, actor *auth.User, id int64, dto *UpdateInterviewDTO) (*Interview, error)
	AddParticipant(ctx context.Context, actor *auth.User, id int64, dto AddParticipantDTO) (*Interview, error)
	RemoveParticipant(ctx context.Context, actor *auth.User, id, userID int64) (*Interview, error)
	List(ctx context.Context, actor *auth.User, filter Filter, limit, offset int) ([]*Interview, error)
	Upcoming(ctx context.Context, actor *auth.User, filter Filter, limit, offset int) ([]*Interview, error)
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

	var dto CreateInterviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interview, err := h.Service.Create(r.Context(), actor, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, interview)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid interview ID")
		return
	}

	interview, err := h.Service.GetByID(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, interview)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid interview ID")
		return
	}

	var dto UpdateInterviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interview, err := h.Service.Update(r.Context(), actor, id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, interview)
}

func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid interview ID")
		return
	}

	var dto AddParticipantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddParticipant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interview, err := h.Service.AddParticipant(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, interview)
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid interview ID")
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	interview, err := h.Service.RemoveParticipant(r.Context(), actor, id, userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, interview)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	limit, offset := pagination(r)

	var interviews []*Interview
	if r.URL.Query().Get("upcoming") == "true" {
		interviews, err = h.Service.Upcoming(r.Context(), actor, filter, limit, offset)
	} else {
		interviews, err = h.Service.List(r.Context(), actor, filter, limit, offset)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, interviews)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	q := r.URL.Query()

	for param, target := range map[string]**int64{
		"organization_id": &filter.OrganizationID,
		"job_request_id":  &filter.JobRequestID,
		"assigned_hr_id":  &filter.AssignedHRUserID,
		"participant_id":  &filter.ParticipantUserID,
	} {
		if raw := q.Get(param); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return filter, badQueryParam(param)
			}
			*target = &id
		}
	}

	if raw := q.Get("status"); raw != "" {
		filter.Statuses = q["status"]
	}
	if raw := q.Get("from"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, badQueryParam("from")
		}
		filter.From = &at
	}
	if raw := q.Get("to"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, badQueryParam("to")
		}
		filter.To = &at
	}

	return filter, nil
}

func badQueryParam(name string) error {
	return internal.NewValidationFieldError(name, "invalid "+name+" query parameter", internal.ErrCodeValidationFailed)
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
