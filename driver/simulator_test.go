package driver_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

type recordingHook struct {
	events []driver.BranchEvent
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.events = append(h.events, ctx.Item.(driver.BranchEvent))
}

func reader(lines ...string) *trace.Reader {
	return trace.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

var _ = Describe("Simulator", func() {
	It("should score the static predictor on a short trace", func() {
		s := driver.NewSimulator(predictor.NewStatic())
		stats, err := s.Run(reader("0x1000 1", "0x1000 1", "0x1000 0", "0x1000 1"))
		Expect(err).NotTo(HaveOccurred())

		Expect(stats.Branches).To(Equal(uint64(4)))
		Expect(stats.Mispredictions).To(Equal(uint64(1)))
		Expect(stats.Correct).To(Equal(uint64(3)))
		Expect(stats.Taken).To(Equal(uint64(3)))
		Expect(stats.Sites).To(Equal(1))
		Expect(fmt.Sprintf("%.2f", stats.MispredictionRate())).To(Equal("25.00"))
		Expect(stats.Accuracy()).To(BeNumerically("~", 75.0, 0.001))
	})

	It("should predict before training", func() {
		g := predictor.NewGShare(2)
		hook := &recordingHook{}
		s := driver.NewSimulator(g, driver.WithHook(hook))

		stats, err := s.Run(reader("0x4 1", "0x4 1", "0x4 0", "0x4 0"))
		Expect(err).NotTo(HaveOccurred())

		// Each of the four records lands on a fresh counter, so the initial
		// not-taken prediction is wrong exactly for the two taken records.
		Expect(stats.Mispredictions).To(Equal(uint64(2)))
		Expect(hook.events).To(HaveLen(4))
		for i, e := range hook.events {
			Expect(e.Seq).To(Equal(uint64(i)))
			Expect(e.Prediction).To(Equal(predictor.NotTaken))
		}
		Expect(hook.events[2].Correct()).To(BeTrue())
	})

	It("should count distinct branch sites", func() {
		s := driver.NewSimulator(predictor.NewStatic())
		stats, err := s.Run(reader("0x4 1", "0x8 0", "0x4 1", "0xc 1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Sites).To(Equal(3))
	})

	It("should report zero rates for an empty trace", func() {
		s := driver.NewSimulator(predictor.NewStatic())
		stats, err := s.Run(trace.NewReader(strings.NewReader("")))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Branches).To(BeZero())
		Expect(stats.MispredictionRate()).To(BeZero())
		Expect(stats.Accuracy()).To(BeZero())
	})

	It("should stop at a malformed record", func() {
		s := driver.NewSimulator(predictor.NewStatic())
		stats, err := s.Run(reader("0x4 1", "0x8 x", "0xc 1"))

		var perr *trace.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(2))
		Expect(stats.Branches).To(Equal(uint64(1)))
	})

	It("should return whether a step was correct", func() {
		s := driver.NewSimulator(predictor.NewStatic())
		Expect(s.Step(trace.Record{PC: 0x4, Outcome: predictor.Taken})).To(BeTrue())
		Expect(s.Step(trace.Record{PC: 0x4, Outcome: predictor.NotTaken})).To(BeFalse())
		Expect(s.Stats().Mispredictions).To(Equal(uint64(1)))
	})

	It("should give identical results for identical runs", func() {
		var lines []string
		for i := 0; i < 300; i++ {
			lines = append(lines, fmt.Sprintf("0x%x %d", 0x400000+(i%11)*4, (i/3)%2))
		}

		run := func() []driver.BranchEvent {
			hook := &recordingHook{}
			p := predictor.NewTournament(predictor.TournamentConfig{
				GlobalHistoryBits: 6, LocalHistoryBits: 6, PCIndexBits: 4,
			})
			_, err := driver.NewSimulator(p, driver.WithHook(hook)).Run(reader(lines...))
			Expect(err).NotTo(HaveOccurred())
			return hook.events
		}

		Expect(run()).To(Equal(run()))
	})
})

var _ = Describe("VerboseHook", func() {
	It("should print every prediction", func() {
		var buf bytes.Buffer
		hook := driver.NewVerboseHook(&buf)
		s := driver.NewSimulator(predictor.NewGShare(2), driver.WithHook(hook))

		_, err := s.Run(reader("0x4 1", "0x4 1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(hook.Err()).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal("NotTaken\nNotTaken\n"))
	})
})

var _ = Describe("CountHook", func() {
	It("should report at every interval", func() {
		var reports []uint64
		hook := &driver.CountHook{
			Interval: 2,
			Report: func(n uint64, stats driver.Stats) {
				Expect(stats.Branches).To(Equal(n))
				reports = append(reports, n)
			},
		}
		s := driver.NewSimulator(predictor.NewStatic(), driver.WithHook(hook))

		_, err := s.Run(reader("0x4 1", "0x4 1", "0x4 1", "0x4 1", "0x4 1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(Equal([]uint64{2, 4}))
	})
})
