package ticket

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
	Create(ctx context.Context, actor *auth.User, dto *CreateTicketDTO) (*Ticket, error)
	GetByID(ctx context.Context, actor *auth.User, id int64) (*Ticket, error)
	Assign(ctx context.Context, actor *auth.User, id int64, dto AssignTicketDTO) (*Ticket, error)
	UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Ticket, error)
	PostMessage(ctx context.Context, actor *auth.User, id int64, dto PostMessageDTO) (*Message, error)
	ListMessages(ctx context.Context, actor *auth.User, id int64) ([]*Message, error)
	ListMine(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error)
	ListAssigned(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error)
	ListAll(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error)
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

	var dto CreateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.Service.Create(r.Context(), actor, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, ticket)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	ticket, err := h.Service.GetByID(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, ticket)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	var dto AssignTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Assign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.Service.Assign(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, ticket)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.Service.UpdateStatus(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, ticket)
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	var dto PostMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("PostMessage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.Service.PostMessage(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, message)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	messages, err := h.Service.ListMessages(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, messages)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListMine)
}

func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListAssigned)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListAll)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, *auth.User, int, int) ([]*Ticket, error)) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r)
	tickets, err := fn(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, tickets)
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
