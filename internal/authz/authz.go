package authz

import (
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
)

// Action identifies an operation that needs an authorization decision.
type Action string

const (
	ActionJobRequestCreate         Action = "job_request.create"
	ActionJobRequestView           Action = "job_request.view"
	ActionJobRequestUpdate         Action = "job_request.update"
	ActionJobRequestAssignHR       Action = "job_request.assign_hr"
	ActionJobRequestPushCandidates Action = "job_request.push_candidates"
	ActionJobRequestStatistics     Action = "job_request.statistics"

	ActionCandidateView         Action = "candidate.view"
	ActionCandidateUpdateStatus Action = "candidate.update_status"

	ActionInterviewCreate             Action = "interview.create"
	ActionInterviewView               Action = "interview.view"
	ActionInterviewUpdate             Action = "interview.update"
	ActionInterviewManageParticipants Action = "interview.manage_participants"

	ActionOrganizationView   Action = "organization.view"
	ActionOrganizationUpdate Action = "organization.update"
	ActionDepartmentManage   Action = "department.manage"
	ActionMemberList         Action = "member.list"
	ActionInvitationCreate   Action = "invitation.create"
	ActionInvitationReview   Action = "invitation.review"
)

// policy describes who may perform an action. Roles empty means any
// membership suffices; AssignedHR grants hr-type callers access when the
// target entity is assigned to them; AdminOnly actions skip membership
// entirely.
type policy struct {
	AdminOnly  bool
	AssignedHR bool
	Roles      []string
	Mutating   bool
}

// policies is the single allow-list table. Handlers and services never
// carry their own role arrays.
var policies = map[Action]policy{
	ActionJobRequestCreate:         {Mutating: true},
	ActionJobRequestView:           {AssignedHR: true},
	ActionJobRequestUpdate:         {AssignedHR: true, Mutating: true},
	ActionJobRequestAssignHR:       {AdminOnly: true, Mutating: true},
	ActionJobRequestPushCandidates: {AssignedHR: true, Mutating: true},
	ActionJobRequestStatistics:     {},

	ActionCandidateView:         {AssignedHR: true},
	ActionCandidateUpdateStatus: {AssignedHR: true, Mutating: true},

	ActionInterviewCreate:             {AssignedHR: true, Mutating: true},
	ActionInterviewView:               {AssignedHR: true},
	ActionInterviewUpdate:             {AssignedHR: true, Mutating: true},
	ActionInterviewManageParticipants: {AssignedHR: true, Mutating: true},

	ActionOrganizationView:   {},
	ActionOrganizationUpdate: {Roles: []string{orgDatamodel.RoleCOO}, Mutating: true},
	ActionDepartmentManage:   {Roles: []string{orgDatamodel.RoleHRCoordinator, orgDatamodel.RoleCOO}, Mutating: true},
	ActionMemberList:         {},
	ActionInvitationCreate:   {Roles: []string{orgDatamodel.RoleHRCoordinator, orgDatamodel.RoleCOO}, Mutating: true},
	ActionInvitationReview:   {Roles: []string{orgDatamodel.RoleHRCoordinator, orgDatamodel.RoleCOO}, Mutating: true},
}

// Scope resolves the target entity to the organization it belongs to,
// plus the HR assignment on the entity when one exists.
type Scope struct {
	OrganizationID     int64
	AssignedToHRUserID *int64
}
