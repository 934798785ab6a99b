// Package coherence implements a snoop-based cache-coherence engine: a
// fixed number of set-associative caches sharing a broadcast bus, driven
// one processor reference at a time under a chosen coherence protocol.
package coherence

import "fmt"

// BlockState is the coherence state of one cache line. Not every protocol
// admits every state; see the per-protocol dispatch files for which states
// each Protocol can produce.
type BlockState int

const (
	Invalid BlockState = iota
	Modified
	Exclusive
	Shared
	Owned
	Forward
)

// Letter returns the single-character abbreviation used in cache dumps.
func (s BlockState) Letter() byte {
	switch s {
	case Modified:
		return 'M'
	case Exclusive:
		return 'E'
	case Shared:
		return 'S'
	case Owned:
		return 'O'
	case Forward:
		return 'F'
	default:
		return 'I'
	}
}

func (s BlockState) String() string {
	switch s {
	case Modified:
		return "Modified"
	case Exclusive:
		return "Exclusive"
	case Shared:
		return "Shared"
	case Owned:
		return "Owned"
	case Forward:
		return "Forward"
	default:
		return "Invalid"
	}
}

// Protocol selects which of the five coherence dispatch tables a Cache uses.
type Protocol int

const (
	MSI Protocol = iota
	MESI
	MESIF
	MOESI
	FESI
)

func (p Protocol) String() string {
	switch p {
	case MSI:
		return "MSI"
	case MESI:
		return "MESI"
	case MESIF:
		return "MESIF"
	case MOESI:
		return "MOESI"
	case FESI:
		return "FESI"
	default:
		return "unknown"
	}
}

// ParseProtocol maps a trace header token to a Protocol. ok is false for
// any name outside the closed set {MSI, MESI, MESIF, MOESI, FESI}.
func ParseProtocol(name string) (p Protocol, ok bool) {
	switch name {
	case "MSI":
		return MSI, true
	case "MESI":
		return MESI, true
	case "MESIF":
		return MESIF, true
	case "MOESI":
		return MOESI, true
	case "FESI":
		return FESI, true
	default:
		return 0, false
	}
}

// ProcRequest is a memory reference issued by a processor core.
type ProcRequest int

const (
	ProcRd ProcRequest = iota
	ProcWr
)

// BusRequestKind is a snoop transaction broadcast over the Bus.
type BusRequestKind int

const (
	BusRd BusRequestKind = iota
	BusRdX
	BusUpgr
	SetF
	Flush
	FlushPrime
)

func (r BusRequestKind) String() string {
	switch r {
	case BusRd:
		return "BusRd"
	case BusRdX:
		return "BusRdX"
	case BusUpgr:
		return "BusUpgr"
	case SetF:
		return "setF"
	case Flush:
		return "Flush"
	case FlushPrime:
		return "Flush'"
	default:
		return fmt.Sprintf("BusRequestKind(%d)", int(r))
	}
}

// isSilent reports whether req is a bookkeeping-only broadcast that the Bus
// never forwards to peer caches (§4.3).
func (r BusRequestKind) isSilent() bool {
	return r == Flush || r == FlushPrime
}

// CacheStat names one of a Cache's nine per-cache counters.
type CacheStat int

const (
	Reads CacheStat = iota
	ReadMisses
	Writes
	WriteMisses
	Writebacks
	Invalidations
	Provided
	FromLLC
	Random
	numCacheStats
)

// BusStat names one of a Bus's six per-transaction counters.
type BusStat int

const (
	StatBusRd BusStat = iota
	StatBusRdX
	StatBusUpgr
	StatFlush
	StatFlushPrime
	StatSetF
	numBusStats
)

func busStatFor(req BusRequestKind) BusStat {
	switch req {
	case BusRd:
		return StatBusRd
	case BusRdX:
		return StatBusRdX
	case BusUpgr:
		return StatBusUpgr
	case Flush:
		return StatFlush
	case FlushPrime:
		return StatFlushPrime
	case SetF:
		return StatSetF
	default:
		panic(fmt.Sprintf("coherence: unknown bus request kind %d", int(req)))
	}
}
