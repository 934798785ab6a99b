package coherence_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
)

var _ = Describe("Engine", func() {
	It("builds one cache per core, in id order, under the engine's protocol", func() {
		e := coherence.NewEngine(coherence.DefaultConfig(coherence.MESI))
		Expect(e.Caches()).To(HaveLen(16))
		for i, c := range e.Caches() {
			Expect(c.ID()).To(Equal(i))
			Expect(c.Protocol()).To(Equal(coherence.MESI))
		}
	})

	It("rejects an out-of-range core", func() {
		e := coherence.NewEngine(coherence.DefaultConfig(coherence.MSI))
		err := e.Step(16, coherence.ProcRd, 0x40)
		Expect(err).To(MatchError("Incorrect core number 16"))

		err = e.Step(-1, coherence.ProcRd, 0x40)
		Expect(err).To(MatchError("Incorrect core number -1"))
	})

	It("sums a stat across every cache", func() {
		e := coherence.NewEngine(coherence.DefaultConfig(coherence.MSI))
		Expect(e.Step(0, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Step(1, coherence.ProcRd, 0x80)).To(Succeed())
		Expect(e.TotalStat(coherence.Reads)).To(Equal(2))
	})
})
