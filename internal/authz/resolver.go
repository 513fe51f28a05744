package authz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
)

// MembershipReader exposes the membership and organization rows the
// resolver needs. Lookups run per call; membership can change between
// requests so nothing here is cached.
type MembershipReader interface {
	GetMembership(ctx context.Context, userID, organizationID int64) (*orgDatamodel.Membership, error)
	GetOrganizationStatus(ctx context.Context, organizationID int64) (string, error)
}

type Resolver struct {
	memberships MembershipReader
	logger      *slog.Logger
}

func NewResolver(memberships MembershipReader, logger *slog.Logger) *Resolver {
	return &Resolver{
		memberships: memberships,
		logger:      logger,
	}
}

var (
	errAdminRequired = internal.NewForbiddenError("Only admins can perform this action", internal.ErrCodeAdminRequired)
	errNoMembership  = internal.NewForbiddenError("You do not have access to this organization", internal.ErrCodeNoMembership)
	errNotAssigned   = internal.NewForbiddenError("This job request is not assigned to you", internal.ErrCodeNotAssignedHR)
	errOrgInactive   = internal.NewForbiddenError("This organization is inactive", internal.ErrCodeOrganizationInactive)
)

// Authorize decides whether actor may perform action within scope.
// Resolution order: admin bypass, HR-by-assignment, then membership with
// an optional role allow-list.
func (r *Resolver) Authorize(ctx context.Context, actor *auth.User, action Action, scope Scope) error {
	pol, ok := policies[action]
	if !ok {
		r.logger.Error("no policy registered for action", "action", action)
		return internal.NewInternalError("no policy registered for action", nil)
	}

	if actor.IsAdmin() {
		return nil
	}

	if pol.AdminOnly {
		r.logger.Warn("access denied: admin required",
			"user_id", actor.ID,
			"action", action)
		return errAdminRequired
	}

	if actor.IsHR() {
		if pol.AssignedHR && scope.AssignedToHRUserID != nil && *scope.AssignedToHRUserID == actor.ID {
			return nil
		}
		r.logger.Warn("access denied: hr user not assigned",
			"user_id", actor.ID,
			"action", action,
			"organization_id", scope.OrganizationID)
		return errNotAssigned
	}

	membership, err := r.memberships.GetMembership(ctx, actor.ID, scope.OrganizationID)
	if err != nil || membership == nil {
		r.logger.Warn("access denied: no membership",
			"user_id", actor.ID,
			"action", action,
			"organization_id", scope.OrganizationID)
		return errNoMembership
	}

	if pol.Mutating {
		status, err := r.memberships.GetOrganizationStatus(ctx, scope.OrganizationID)
		if err != nil {
			return internal.NewNotFoundError("Organization not found", internal.ErrCodeOrganizationNotFound)
		}
		if status != orgDatamodel.StatusActive {
			r.logger.Warn("access denied: organization inactive",
				"user_id", actor.ID,
				"organization_id", scope.OrganizationID)
			return errOrgInactive
		}
	}

	if len(pol.Roles) > 0 && !roleAllowed(membership.Role, pol.Roles) {
		r.logger.Warn("access denied: insufficient role",
			"user_id", actor.ID,
			"action", action,
			"role", membership.Role,
			"required_roles", pol.Roles)
		return internal.NewForbiddenError(
			fmt.Sprintf("This action requires one of the roles: %v", pol.Roles),
			internal.ErrCodeInsufficientRole)
	}

	return nil
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
