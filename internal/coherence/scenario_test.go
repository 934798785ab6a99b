package coherence_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
)

// newTestEngine builds an engine with the reference geometry (C=16, S=4,
// A=4, offset=6) used by every worked scenario.
func newTestEngine(protocol coherence.Protocol) *coherence.Engine {
	return coherence.NewEngine(coherence.DefaultConfig(protocol))
}

var _ = Describe("end-to-end scenarios", func() {
	It("MESI: single core, cold read", func() {
		e := newTestEngine(coherence.MESI)
		Expect(e.Step(0, coherence.ProcRd, 0x40)).To(Succeed())

		c0 := e.Caches()[0]
		Expect(c0.Stat(coherence.Reads)).To(Equal(1))
		Expect(c0.Stat(coherence.ReadMisses)).To(Equal(1))
		Expect(c0.Stat(coherence.FromLLC)).To(Equal(1))
		Expect(c0.StateOf(0x40 >> 6)).To(Equal(coherence.Exclusive))
		Expect(e.Bus().Stat(coherence.StatBusRd)).To(Equal(1))
		Expect(e.Bus().Stat(coherence.StatBusRdX)).To(Equal(0))
		Expect(e.Bus().Stat(coherence.StatFlush)).To(Equal(0))
	})

	It("MESI: two readers sharing", func() {
		e := newTestEngine(coherence.MESI)
		Expect(e.Step(0, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Step(1, coherence.ProcRd, 0x40)).To(Succeed())

		blockAddr := uint64(0x40 >> 6)
		Expect(e.Caches()[0].StateOf(blockAddr)).To(Equal(coherence.Shared))
		Expect(e.Caches()[1].StateOf(blockAddr)).To(Equal(coherence.Shared))
		Expect(e.Caches()[0].Stat(coherence.Provided)).To(Equal(1))
		Expect(e.Bus().Stat(coherence.StatBusRd)).To(Equal(2))
		Expect(e.Bus().Stat(coherence.StatFlushPrime)).To(Equal(1))
	})

	It("MESI: write after share", func() {
		e := newTestEngine(coherence.MESI)
		Expect(e.Step(0, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Step(1, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Step(1, coherence.ProcWr, 0x40)).To(Succeed())

		blockAddr := uint64(0x40 >> 6)
		Expect(e.Caches()[1].Stat(coherence.Writes)).To(Equal(1))
		Expect(e.Caches()[1].StateOf(blockAddr)).To(Equal(coherence.Modified))
		Expect(e.Caches()[0].Stat(coherence.Invalidations)).To(Equal(1))
		Expect(e.Caches()[0].StateOf(blockAddr)).To(Equal(coherence.Invalid))
		Expect(e.Bus().Stat(coherence.StatBusUpgr)).To(Equal(1))
	})

	It("MSI: write miss over a Modified peer", func() {
		e := newTestEngine(coherence.MSI)
		Expect(e.Step(0, coherence.ProcWr, 0x40)).To(Succeed())
		Expect(e.Step(1, coherence.ProcWr, 0x40)).To(Succeed())

		blockAddr := uint64(0x40 >> 6)
		c0, c1 := e.Caches()[0], e.Caches()[1]
		Expect(c0.StateOf(blockAddr)).To(Equal(coherence.Invalid))
		Expect(c0.Stat(coherence.Writebacks)).To(Equal(1))
		Expect(c0.Stat(coherence.Invalidations)).To(Equal(1))
		Expect(c0.Stat(coherence.Provided)).To(Equal(1))

		Expect(c1.StateOf(blockAddr)).To(Equal(coherence.Modified))
		Expect(c1.Stat(coherence.FromLLC)).To(Equal(0))
		Expect(c1.Stat(coherence.Provided)).To(Equal(0))

		Expect(e.Bus().Stat(coherence.StatBusRdX)).To(Equal(2))
		Expect(e.Bus().Stat(coherence.StatFlush)).To(Equal(1))
	})

	It("MOESI: dirty sharing defers the write-back", func() {
		e := newTestEngine(coherence.MOESI)
		blockAddr := uint64(0x40 >> 6)

		Expect(e.Step(0, coherence.ProcWr, 0x40)).To(Succeed())
		Expect(e.Caches()[0].StateOf(blockAddr)).To(Equal(coherence.Modified))

		Expect(e.Step(1, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Caches()[0].StateOf(blockAddr)).To(Equal(coherence.Owned))
		Expect(e.Caches()[1].StateOf(blockAddr)).To(Equal(coherence.Shared))
		Expect(e.TotalStat(coherence.Writebacks)).To(Equal(0))

		Expect(e.Step(2, coherence.ProcRd, 0x40)).To(Succeed())
		Expect(e.Caches()[0].StateOf(blockAddr)).To(Equal(coherence.Owned))
		Expect(e.Caches()[2].StateOf(blockAddr)).To(Equal(coherence.Shared))
		Expect(e.TotalStat(coherence.Writebacks)).To(Equal(0))
		Expect(e.Caches()[0].Stat(coherence.Provided)).To(Equal(2))
	})

	It("FESI: forward handoff on eviction", func() {
		e := newTestEngine(coherence.FESI)
		c0, c1 := e.Caches()[0], e.Caches()[1]

		blockAddrOf := func(tag uint64) uint64 { return tag << 2 } // set0, SetBits=2
		addrOf := func(tag uint64) uint64 { return blockAddrOf(tag) << 6 }

		// cache1 takes the shared block first, alone.
		Expect(e.Step(1, coherence.ProcRd, addrOf(0))).To(Succeed())
		Expect(c1.StateOf(blockAddrOf(0))).To(Equal(coherence.Exclusive))

		// cache0 joins as a reader: cache1 downgrades to Shared, cache0
		// becomes the sole Forward holder.
		Expect(e.Step(0, coherence.ProcRd, addrOf(0))).To(Succeed())
		Expect(c0.StateOf(blockAddrOf(0))).To(Equal(coherence.Forward))
		Expect(c1.StateOf(blockAddrOf(0))).To(Equal(coherence.Shared))

		// cache0 fills the rest of set 0 with distinct, unshared blocks.
		Expect(e.Step(0, coherence.ProcRd, addrOf(1))).To(Succeed())
		Expect(e.Step(0, coherence.ProcRd, addrOf(2))).To(Succeed())
		Expect(e.Step(0, coherence.ProcRd, addrOf(3))).To(Succeed())

		// A fifth distinct address evicts the Forward holder (tag 0, LRU).
		Expect(e.Step(0, coherence.ProcRd, addrOf(4))).To(Succeed())

		Expect(c0.StateOf(blockAddrOf(0))).To(Equal(coherence.Invalid))
		Expect(c1.StateOf(blockAddrOf(0))).To(Equal(coherence.Forward))
		Expect(c0.Stat(coherence.Writebacks)).To(Equal(0))
		Expect(c1.Stat(coherence.Random)).To(Equal(1))
		Expect(e.Bus().Stat(coherence.StatSetF)).To(Equal(1))
	})
})
