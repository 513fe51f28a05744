package organization

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
	GetByID(ctx context.Context, actor *auth.User, id int64) (*Organization, error)
	Update(ctx context.Context, actor *auth.User, id int64, dto UpdateOrganizationDTO) (*Organization, error)
	SetStatus(ctx context.Context, actor *auth.User, id int64, status string) (*Organization, error)
	ListAll(ctx context.Context, actor *auth.User, limit, offset int) ([]*Organization, error)
	CreateDepartment(ctx context.Context, actor *auth.User, organizationID int64, dto CreateDepartmentDTO) (*Department, error)
	ListDepartments(ctx context.Context, actor *auth.User, organizationID int64) ([]*Department, error)
	DeleteDepartment(ctx context.Context, actor *auth.User, organizationID, departmentID int64) error
	ListMembers(ctx context.Context, actor *auth.User, organizationID int64) ([]*Member, error)
	CreateInvitation(ctx context.Context, actor *auth.User, organizationID int64, dto *CreateInvitationDTO) (*Invitation, error)
	ListInvitations(ctx context.Context, actor *auth.User, organizationID int64) ([]*Invitation, error)
	ReviewInvitation(ctx context.Context, actor *auth.User, organizationID, invitationID int64, dto ReviewInvitationDTO) (*Invitation, error)
	AcceptInvitation(ctx context.Context, dto AcceptInvitationDTO) (*Invitation, error)
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

	id, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	organization, err := h.Service.GetByID(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, organization)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto UpdateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	organization, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, organization)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "orgID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	organization, err := h.Service.SetStatus(r.Context(), actor, id, dto.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, organization)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r)
	organizations, err := h.Service.ListAll(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, organizations)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
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

	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDepartment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	department, err := h.Service.CreateDepartment(r.Context(), actor, organizationID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, department)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
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

	departments, err := h.Service.ListDepartments(r.Context(), actor, organizationID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, departments)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
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

	departmentID, err := pathID(r, "departmentID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	if err := h.Service.DeleteDepartment(r.Context(), actor, organizationID, departmentID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "department deleted", nil)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.Service.ListMembers(r.Context(), actor, organizationID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, members)
}

func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
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

	var dto CreateInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.Service.CreateInvitation(r.Context(), actor, organizationID, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, invitation)
}

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
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

	invitations, err := h.Service.ListInvitations(r.Context(), actor, organizationID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, invitations)
}

func (h *Handler) ReviewInvitation(w http.ResponseWriter, r *http.Request) {
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

	invitationID, err := pathID(r, "invitationID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid invitation ID")
		return
	}

	var dto ReviewInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ReviewInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.Service.ReviewInvitation(r.Context(), actor, organizationID, invitationID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, invitation)
}

// AcceptInvitation is reachable without a bearer token; the invitation
// token is the credential.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var dto AcceptInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AcceptInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.Service.AcceptInvitation(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, invitation)
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
