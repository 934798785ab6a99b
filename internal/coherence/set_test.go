package coherence_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
)

var _ = Describe("Set", func() {
	var s *coherence.Set

	BeforeEach(func() {
		s = coherence.NewSet(2)
	})

	It("starts with every way Invalid", func() {
		Expect(s.StateOf(0x10)).To(Equal(coherence.Invalid))
		for _, b := range s.Contents() {
			Expect(b.State).To(Equal(coherence.Invalid))
		}
	})

	It("reports the state of an inserted tag", func() {
		s.Insert(coherence.Block{Tag: 0x10, State: coherence.Shared})
		Expect(s.StateOf(0x10)).To(Equal(coherence.Shared))
	})

	It("evicts the LRU way, preferring an Invalid slot", func() {
		// Both ways start Invalid; first insert evicts one of them.
		evicted := s.Insert(coherence.Block{Tag: 0x1, State: coherence.Shared})
		Expect(evicted.State).To(Equal(coherence.Invalid))

		// Second insert fills the remaining Invalid way.
		evicted = s.Insert(coherence.Block{Tag: 0x2, State: coherence.Shared})
		Expect(evicted.State).To(Equal(coherence.Invalid))

		// A third insert must now evict a real block (tag 0x1, the LRU one).
		evicted = s.Insert(coherence.Block{Tag: 0x3, State: coherence.Shared})
		Expect(evicted.Tag).To(Equal(uint64(0x1)))
		Expect(s.StateOf(0x1)).To(Equal(coherence.Invalid))
		Expect(s.StateOf(0x2)).To(Equal(coherence.Shared))
		Expect(s.StateOf(0x3)).To(Equal(coherence.Shared))
	})

	It("moves a touched block to the MRU end", func() {
		s.Insert(coherence.Block{Tag: 0x1, State: coherence.Shared})
		s.Insert(coherence.Block{Tag: 0x2, State: coherence.Shared})

		s.MoveToMRU(0x1)

		// 0x2 is now LRU and should be the next eviction victim.
		evicted := s.Insert(coherence.Block{Tag: 0x3, State: coherence.Shared})
		Expect(evicted.Tag).To(Equal(uint64(0x2)))
	})

	It("moves a transition to Invalid back to the LRU end", func() {
		s.Insert(coherence.Block{Tag: 0x1, State: coherence.Shared})
		s.Insert(coherence.Block{Tag: 0x2, State: coherence.Modified})

		s.SetState(0x2, coherence.Invalid)

		// 0x2 is Invalid and LRU; the next eviction must prefer it over 0x1.
		evicted := s.Insert(coherence.Block{Tag: 0x3, State: coherence.Shared})
		Expect(evicted.State).To(Equal(coherence.Invalid))
		Expect(s.StateOf(0x1)).To(Equal(coherence.Shared))
	})

	It("updates state in place without reordering for non-Invalid transitions", func() {
		s.Insert(coherence.Block{Tag: 0x1, State: coherence.Shared})
		s.Insert(coherence.Block{Tag: 0x2, State: coherence.Shared})

		s.SetState(0x1, coherence.Modified)
		Expect(s.StateOf(0x1)).To(Equal(coherence.Modified))

		// 0x1 is still LRU (unmoved), so it's still the next eviction victim.
		evicted := s.Insert(coherence.Block{Tag: 0x3, State: coherence.Shared})
		Expect(evicted.Tag).To(Equal(uint64(0x1)))
	})
})
