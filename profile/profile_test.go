package profile_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/profile"
	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("Profile", func() {
	var p *profile.Profile

	BeforeEach(func() {
		p = profile.New(profile.DefaultConfig())
	})

	It("should count executions per site", func() {
		p.Record(0x1000, predictor.Taken, true)
		p.Record(0x1000, predictor.NotTaken, false)
		p.Record(0x2000, predictor.Taken, false)

		e, ok := p.Lookup(0x1000)
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(profile.Entry{PC: 0x1000, Executions: 2, Taken: 1, Mispredictions: 1}))
		Expect(e.MispredictionRate()).To(BeNumerically("~", 50.0, 0.001))

		Expect(p.Entries()).To(HaveLen(2))
		Expect(p.Stats().Hits).To(Equal(uint64(1)))
		Expect(p.Stats().Misses).To(Equal(uint64(2)))
	})

	It("should not know sites it never saw", func() {
		_, ok := p.Lookup(0x1234)
		Expect(ok).To(BeFalse())
	})

	It("should order the hottest sites first", func() {
		for i := 0; i < 3; i++ {
			p.Record(0x30, predictor.Taken, false)
		}
		p.Record(0x10, predictor.Taken, false)
		p.Record(0x20, predictor.Taken, false)
		p.Record(0x40, predictor.Taken, true)

		top := p.Top(3)
		Expect(top).To(HaveLen(3))
		Expect(top[0].PC).To(Equal(uint32(0x30)))
		Expect(top[1].PC).To(Equal(uint32(0x10)))
		Expect(top[2].PC).To(Equal(uint32(0x20)))

		Expect(p.Top(-1)).To(HaveLen(4))
	})

	Context("when a set overflows", func() {
		BeforeEach(func() {
			p = profile.New(profile.Config{Sets: 1, Ways: 2})
		})

		It("should evict the least recently executed site", func() {
			p.Record(0x10, predictor.Taken, true)
			p.Record(0x20, predictor.Taken, true)
			p.Record(0x10, predictor.Taken, true)
			p.Record(0x30, predictor.Taken, true)

			_, ok := p.Lookup(0x20)
			Expect(ok).To(BeFalse())
			e, ok := p.Lookup(0x10)
			Expect(ok).To(BeTrue())
			Expect(e.Executions).To(Equal(uint64(2)))

			Expect(p.Stats().Evictions).To(Equal(uint64(1)))
			Expect(p.Entries()).To(HaveLen(2))
		})

		It("should restart the counters of a returning site", func() {
			p.Record(0x10, predictor.Taken, false)
			p.Record(0x20, predictor.Taken, true)
			p.Record(0x30, predictor.Taken, true)
			p.Record(0x10, predictor.Taken, true)

			e, ok := p.Lookup(0x10)
			Expect(ok).To(BeTrue())
			Expect(e.Executions).To(Equal(uint64(1)))
			Expect(e.Mispredictions).To(BeZero())
		})
	})

	It("should reset", func() {
		p.Record(0x10, predictor.Taken, false)
		p.Reset()
		Expect(p.Entries()).To(BeEmpty())
		Expect(p.Stats()).To(Equal(profile.Statistics{}))
	})

	It("should profile a simulation as a hook", func() {
		sim := driver.NewSimulator(predictor.NewStatic(), driver.WithHook(p))
		lines := "0x4 1\n0x8 0\n0x4 0\n0x8 0\n0xc 1\n"
		_, err := sim.Run(trace.NewReader(strings.NewReader(lines)))
		Expect(err).NotTo(HaveOccurred())

		top := p.Top(1)
		Expect(top).To(HaveLen(1))
		Expect(top[0]).To(Equal(profile.Entry{PC: 0x8, Executions: 2, Mispredictions: 2}))

		e, ok := p.Lookup(0x4)
		Expect(ok).To(BeTrue())
		Expect(e.Taken).To(Equal(uint64(1)))
	})

	It("should reject an empty geometry", func() {
		Expect(func() { profile.New(profile.Config{Sets: 0, Ways: 1}) }).To(Panic())
	})
})
