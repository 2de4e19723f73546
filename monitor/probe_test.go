package monitor_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rolegraph/rolegraph/authz"
	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/logx/lagerx"
	"github.com/rolegraph/rolegraph/monitor"
	"github.com/rolegraph/rolegraph/repos/inmemory"
	uuid "github.com/satori/go.uuid"
)

type recordingStatter struct {
	recorded  []time.Duration
	correct   int
	incorrect int
	failed    int
	rotations int
	stats     int
}

func (s *recordingStatter) Rotate() { s.rotations++ }

func (s *recordingStatter) RecordProbeDuration(logger logx.Logger, d time.Duration) {
	s.recorded = append(s.recorded, d)
}

func (s *recordingStatter) SendFailedProbe(logger logx.Logger)    { s.failed++ }
func (s *recordingStatter) SendIncorrectProbe(logger logx.Logger) { s.incorrect++ }
func (s *recordingStatter) SendCorrectProbe(logger logx.Logger)   { s.correct++ }
func (s *recordingStatter) SendStats(logger logx.Logger)          { s.stats++ }

var _ = Describe("Probe", func() {
	var (
		manager *authz.Manager
		subject *monitor.Probe
		statter *recordingStatter

		ctx    context.Context
		logger *lagerx.Logger

		uniqueSuffix string
	)

	BeforeEach(func() {
		store := inmemory.NewStore(fakeclock.NewFakeClock(time.Now()))
		testLogger := lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-test"))

		manager = authz.NewManager(testLogger, store, store, store, store)
		subject = monitor.NewProbe(manager)
		statter = &recordingStatter{}

		ctx = context.Background()
		logger = lagerx.NewLogger(lagertest.NewTestLogger("rolegraph-test"))

		uniqueSuffix = uuid.NewV4().String()
	})

	Describe("#Setup", func() {
		It("creates the probe fixtures", func() {
			_, err := subject.Setup(ctx, logger, uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())

			hasPermission, err := manager.HasPermission(ctx, monitor.ProbeUserID, monitor.ProbePermissionName+"."+uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasPermission).To(BeTrue())
		})

		It("tolerates fixtures left over from an interrupted pass", func() {
			_, err := subject.Setup(ctx, logger, uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())

			_, err = subject.Setup(ctx, logger, uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("#Run", func() {
		It("answers all three checks correctly after setup", func() {
			_, err := subject.Setup(ctx, logger, uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())

			correct, durations, err := subject.Run(ctx, logger, uniqueSuffix)

			Expect(err).NotTo(HaveOccurred())
			Expect(correct).To(BeTrue())
			Expect(durations).To(HaveLen(3))
		})

		It("reports an incorrect result without setup", func() {
			correct, _, err := subject.Run(ctx, logger, uniqueSuffix)

			Expect(err).NotTo(HaveOccurred())
			Expect(correct).To(BeFalse())
		})
	})

	Describe("#Cleanup", func() {
		It("removes every fixture", func() {
			_, err := subject.Setup(ctx, logger, uniqueSuffix)
			Expect(err).NotTo(HaveOccurred())

			subject.Cleanup(ctx, logger, uniqueSuffix)

			roles, err := manager.ListRoles(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(BeEmpty())

			permissions, err := manager.ListPermissions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(BeEmpty())
		})

		It("tolerates a store with no fixtures", func() {
			subject.Cleanup(ctx, logger, uniqueSuffix)
		})
	})

	Describe("#Cycle", func() {
		It("records durations and reports a correct pass", func() {
			subject.Cycle(ctx, logger, statter, uniqueSuffix)

			Expect(statter.correct).To(Equal(1))
			Expect(statter.incorrect).To(BeZero())
			Expect(statter.failed).To(BeZero())
			Expect(statter.recorded).To(HaveLen(7))
		})

		It("leaves no fixtures behind", func() {
			subject.Cycle(ctx, logger, statter, uniqueSuffix)

			roles, err := manager.ListRoles(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(BeEmpty())
		})
	})
})
