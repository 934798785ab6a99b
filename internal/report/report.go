// Package report formats an Engine's final statistics and cache contents,
// following the banner/per-cache/bus/total layout the reference driver
// prints at the end of a trace.
package report

import (
	"fmt"
	"io"

	"github.com/rishabh-c-s/fesi-coherence-sim/internal/coherence"
)

// Write prints the protocol banner, per-cache stats and contents, bus
// stats, and aggregate totals for engine to w.
func Write(w io.Writer, protocolName string, engine *coherence.Engine) {
	fmt.Fprintf(w, "Protocol Used : %s\n", protocolName)

	for _, c := range engine.Caches() {
		writeCacheStats(w, c)
	}

	fmt.Fprintln(w, "----")
	writeBusStats(w, engine.Bus())

	fmt.Fprintln(w, "----")
	fmt.Fprintln(w, ">>>> Total Cache Stats")
	writeStatLine(w, "Reads", engine.TotalStat(coherence.Reads))
	writeStatLine(w, "Read misses", engine.TotalStat(coherence.ReadMisses))
	writeStatLine(w, "Writes", engine.TotalStat(coherence.Writes))
	writeStatLine(w, "Write misses", engine.TotalStat(coherence.WriteMisses))
	writeStatLine(w, "Writebacks", engine.TotalStat(coherence.Writebacks))
	writeStatLine(w, "Invalidations", engine.TotalStat(coherence.Invalidations))
	writeStatLine(w, "Provided", engine.TotalStat(coherence.Provided))
	writeStatLine(w, "From LLC", engine.TotalStat(coherence.FromLLC))
	writeStatLine(w, "Random", engine.TotalStat(coherence.Random))
}

func writeCacheStats(w io.Writer, c *coherence.Cache) {
	fmt.Fprintf(w, ">> Cache %d stats\n", c.ID())
	writeStatLine(w, "Reads", c.Stat(coherence.Reads))
	writeStatLine(w, "Read misses", c.Stat(coherence.ReadMisses))
	writeStatLine(w, "Writes", c.Stat(coherence.Writes))
	writeStatLine(w, "Write misses", c.Stat(coherence.WriteMisses))
	writeStatLine(w, "Writebacks", c.Stat(coherence.Writebacks))
	writeStatLine(w, "Invalidations", c.Stat(coherence.Invalidations))
	writeStatLine(w, "Provided", c.Stat(coherence.Provided))
	writeStatLine(w, "From LLC", c.Stat(coherence.FromLLC))
	writeStatLine(w, "Randomly Chosen", c.Stat(coherence.Random))

	fmt.Fprintln(w, "Cache blocks present :")
	for i, set := range c.Sets() {
		fmt.Fprintf(w, "Set %d => ", i)
		for _, block := range set.Contents() {
			fmt.Fprintf(w, "%c:0x%x\t", block.State.Letter(), block.Tag)
		}
		fmt.Fprintln(w)
	}
}

func writeBusStats(w io.Writer, b *coherence.Bus) {
	fmt.Fprintln(w, ">> Bus stats")
	fmt.Fprintf(w, "Number of BusRd        : %d\n", b.Stat(coherence.StatBusRd))
	fmt.Fprintf(w, "Number of BusRdX       : %d\n", b.Stat(coherence.StatBusRdX))
	fmt.Fprintf(w, "Number of BusUpgr      : %d\n", b.Stat(coherence.StatBusUpgr))
	fmt.Fprintf(w, "Number of Flushes      : %d\n", b.Stat(coherence.StatFlush))
	fmt.Fprintf(w, "Number of Flush Primes : %d\n", b.Stat(coherence.StatFlushPrime))
	fmt.Fprintf(w, "Number of setF         : %d\n", b.Stat(coherence.StatSetF))
}

func writeStatLine(w io.Writer, label string, value int) {
	fmt.Fprintf(w, "%-15s : %d\n", label, value)
}
