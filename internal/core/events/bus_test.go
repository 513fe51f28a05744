package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentgrid/hiring-management/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		ctx = context.Background()
	})

	It("fans an event out to every subscriber", func() {
		var mu sync.Mutex
		var received []string

		for _, name := range []string{"first", "second"} {
			name := name
			bus.Subscribe(events.EventTypeJobRequestCreated, func(ctx context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				received = append(received, name)
				return nil
			})
		}

		err := bus.Publish(ctx, events.NewJobRequestCreatedEvent(1, 10, 2, "Backend Engineer"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(received)
		}, time.Second).Should(Equal(2))
		Expect(received).To(ConsistOf("first", "second"))
	})

	It("keeps handlers alive after the publishing request context is cancelled", func() {
		ctxErrs := make(chan error, 1)
		bus.Subscribe(events.EventTypeJobRequestCreated, func(ctx context.Context, e events.Event) error {
			time.Sleep(20 * time.Millisecond)
			ctxErrs <- ctx.Err()
			return nil
		})

		reqCtx, cancel := context.WithCancel(ctx)
		err := bus.Publish(reqCtx, events.NewJobRequestCreatedEvent(1, 10, 2, "Backend Engineer"))
		cancel()

		Expect(err).ToNot(HaveOccurred())
		Eventually(ctxErrs, time.Second).Should(Receive(BeNil()))
	})

	It("never surfaces handler failures to the publisher", func() {
		bus.Subscribe(events.EventTypeJobRequestCreated, func(ctx context.Context, e events.Event) error {
			return errors.New("handler exploded")
		})

		err := bus.Publish(ctx, events.NewJobRequestCreatedEvent(1, 10, 2, "Backend Engineer"))

		Expect(err).ToNot(HaveOccurred())
	})

	It("succeeds with no subscribers", func() {
		err := bus.Publish(ctx, events.NewTicketRepliedEvent(1, 2, 3))
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("PublishSync", func() {
		It("runs handlers inline and returns the first failure", func() {
			calls := 0
			bus.Subscribe(events.EventTypeCandidateHired, func(ctx context.Context, e events.Event) error {
				calls++
				return errors.New("boom")
			})
			bus.Subscribe(events.EventTypeCandidateHired, func(ctx context.Context, e events.Event) error {
				calls++
				return nil
			})

			err := bus.PublishSync(ctx, events.NewCandidateHiredEvent(5, 1, 10, 2))

			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))
		})
	})
})
