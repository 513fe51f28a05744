package jobrequest

import (
	"fmt"

	"github.com/talentgrid/hiring-management/internal"
)

// Status is the closed set of job request lifecycle states. Status moves
// only through the transition table below; the generic update endpoint
// cannot write it.
type Status string

const (
	StatusReceived            Status = "received"
	StatusAssignedToHR        Status = "assigned_to_hr"
	StatusShortlisting        Status = "shortlisting"
	StatusCandidatesDelivered Status = "candidates_delivered"
	StatusInterviewsScheduled Status = "interviews_scheduled"
	StatusSelectionPending    Status = "selection_pending"
	StatusHired               Status = "hired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusAssignedToHR, StatusShortlisting,
		StatusCandidatesDelivered, StatusInterviewsScheduled,
		StatusSelectionPending, StatusHired:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// AllStatuses in pipeline order, used by the statistics projection so
// zero-row organizations still report every bucket.
var AllStatuses = []Status{
	StatusReceived,
	StatusAssignedToHR,
	StatusShortlisting,
	StatusCandidatesDelivered,
	StatusInterviewsScheduled,
	StatusSelectionPending,
	StatusHired,
}

// transitions is the legal forward edge set. HR assignment is absent on
// purpose: assigning HR is always legal from any state and overwrites,
// so it is handled by AssignHR rather than the table. Candidate delivery
// is likewise reachable from any pre-hire state.
var transitions = map[Status][]Status{
	StatusReceived:            {StatusAssignedToHR, StatusCandidatesDelivered},
	StatusAssignedToHR:        {StatusShortlisting, StatusCandidatesDelivered},
	StatusShortlisting:        {StatusCandidatesDelivered},
	StatusCandidatesDelivered: {StatusInterviewsScheduled, StatusCandidatesDelivered},
	StatusInterviewsScheduled: {StatusSelectionPending, StatusCandidatesDelivered},
	StatusSelectionPending:    {StatusHired, StatusCandidatesDelivered},
	StatusHired:               {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a requested status move and returns a validation
// error naming both states when the move is illegal.
func Transition(from, to Status) error {
	if !to.Valid() {
		return internal.NewValidationError(
			fmt.Sprintf("unknown job request status %q", to),
			internal.ErrCodeInvalidStatus)
	}
	if !CanTransition(from, to) {
		return internal.NewValidationError(
			fmt.Sprintf("cannot move job request from %q to %q", from, to),
			internal.ErrCodeIllegalTransition)
	}
	return nil
}
