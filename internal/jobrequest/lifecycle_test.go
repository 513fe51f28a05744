package jobrequest_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
)

var _ = Describe("JobRequest Lifecycle", func() {
	DescribeTable("legal transitions",
		func(from, to jobrequest.Status) {
			Expect(jobrequest.CanTransition(from, to)).To(BeTrue())
		},
		Entry("received to assigned_to_hr", jobrequest.StatusReceived, jobrequest.StatusAssignedToHR),
		Entry("received straight to candidates_delivered", jobrequest.StatusReceived, jobrequest.StatusCandidatesDelivered),
		Entry("assigned_to_hr to shortlisting", jobrequest.StatusAssignedToHR, jobrequest.StatusShortlisting),
		Entry("shortlisting to candidates_delivered", jobrequest.StatusShortlisting, jobrequest.StatusCandidatesDelivered),
		Entry("candidates_delivered to interviews_scheduled", jobrequest.StatusCandidatesDelivered, jobrequest.StatusInterviewsScheduled),
		Entry("repeat delivery from candidates_delivered", jobrequest.StatusCandidatesDelivered, jobrequest.StatusCandidatesDelivered),
		Entry("repeat delivery after interviews", jobrequest.StatusInterviewsScheduled, jobrequest.StatusCandidatesDelivered),
		Entry("interviews_scheduled to selection_pending", jobrequest.StatusInterviewsScheduled, jobrequest.StatusSelectionPending),
		Entry("selection_pending to hired", jobrequest.StatusSelectionPending, jobrequest.StatusHired),
	)

	DescribeTable("illegal transitions",
		func(from, to jobrequest.Status) {
			Expect(jobrequest.CanTransition(from, to)).To(BeFalse())
		},
		Entry("received cannot jump to hired", jobrequest.StatusReceived, jobrequest.StatusHired),
		Entry("received cannot jump to shortlisting", jobrequest.StatusReceived, jobrequest.StatusShortlisting),
		Entry("no backwards move to received", jobrequest.StatusAssignedToHR, jobrequest.StatusReceived),
		Entry("hired is terminal", jobrequest.StatusHired, jobrequest.StatusCandidatesDelivered),
		Entry("shortlisting cannot skip to selection", jobrequest.StatusShortlisting, jobrequest.StatusSelectionPending),
	)

	Describe("Transition", func() {
		It("flags unknown statuses as invalid", func() {
			err := jobrequest.Transition(jobrequest.StatusReceived, "archived")

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})

		It("names both states in the illegal transition error", func() {
			err := jobrequest.Transition(jobrequest.StatusReceived, jobrequest.StatusHired)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
			Expect(appErr.Message).To(ContainSubstring("received"))
			Expect(appErr.Message).To(ContainSubstring("hired"))
		})
	})
})
