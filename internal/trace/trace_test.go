package trace_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
	"github.com/rishabh-c-s/fesi-coherence-sim/internal/trace"
)

var _ = Describe("Reader", func() {
	It("reads the protocol header", func() {
		r := trace.NewReader(strings.NewReader("MESI\n-1\n"))
		name, err := r.ReadProtocol()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("MESI"))
	})

	It("reads records until the -1 terminator", func() {
		r := trace.NewReader(strings.NewReader("MSI\n0 r 0x40\n1 w 0x80\n-1\n"))
		_, err := r.ReadProtocol()
		Expect(err).NotTo(HaveOccurred())

		rec, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(trace.Record{Core: 0, Op: coherence.ProcRd, Address: 0x40}))

		rec, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(trace.Record{Core: 1, Op: coherence.ProcWr, Address: 0x80}))

		_, err = r.Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("accepts addresses without a 0x prefix", func() {
		r := trace.NewReader(strings.NewReader("MSI\n2 r 40\n-1\n"))
		_, _ = r.ReadProtocol()

		rec, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Address).To(Equal(uint64(0x40)))
	})

	It("reports an error on a malformed core number", func() {
		r := trace.NewReader(strings.NewReader("MSI\nnotanumber r 0x40\n-1\n"))
		_, _ = r.ReadProtocol()

		_, err := r.Next()
		Expect(err).To(HaveOccurred())
	})
})
