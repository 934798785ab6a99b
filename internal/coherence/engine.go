package coherence

import "fmt"

// Config parameterizes an Engine. The reference design's defaults (§3) are
// NumCores=16, NumSets=4, NumWays=4, OffsetBits=6.
type Config struct {
	Protocol   Protocol
	NumCores   int
	NumSets    int
	NumWays    int
	OffsetBits int
}

// DefaultConfig returns the reference design's cache geometry, with the
// protocol left for the caller to fill in from the trace header.
func DefaultConfig(protocol Protocol) Config {
	return Config{
		Protocol:   protocol,
		NumCores:   16,
		NumSets:    4,
		NumWays:    4,
		OffsetBits: 6,
	}
}

// Engine owns every Cache and the single Bus they share, resolving the
// Cache<->Bus cyclic reference by construction (§9): Engine builds the
// caches, then the Bus over that slice, then wires each Cache back to it.
type Engine struct {
	caches []*Cache
	bus    *Bus
}

// NewEngine builds an Engine with cfg.NumCores caches, each with
// cfg.NumSets sets of cfg.NumWays ways, all dispatching under cfg.Protocol.
func NewEngine(cfg Config) *Engine {
	caches := make([]*Cache, cfg.NumCores)
	for i := range caches {
		caches[i] = NewCache(i, cfg.Protocol, cfg.NumSets, cfg.NumWays, cfg.OffsetBits)
	}

	bus := NewBus(caches)
	for _, c := range caches {
		c.SetBus(bus)
	}

	return &Engine{caches: caches, bus: bus}
}

// Caches returns every cache in ascending id order.
func (e *Engine) Caches() []*Cache { return e.caches }

// Bus returns the shared bus.
func (e *Engine) Bus() *Bus { return e.bus }

// InvalidCoreError reports a trace record naming a core outside [0, NumCores).
type InvalidCoreError struct {
	Core int
}

func (e *InvalidCoreError) Error() string {
	return fmt.Sprintf("Incorrect core number %d", e.Core)
}

// Step forwards one processor reference to the target core's cache. It
// returns an *InvalidCoreError if core is outside [0, len(Caches())); the
// caller (the CLI) is expected to print that error's message and exit,
// per §6's "Incorrect core number N" diagnostic.
func (e *Engine) Step(core int, op ProcRequest, address uint64) error {
	if core < 0 || core >= len(e.caches) {
		return &InvalidCoreError{Core: core}
	}
	e.caches[core].HandleProcRequest(op, address)
	return nil
}

// TotalStat sums one counter across every cache.
func (e *Engine) TotalStat(stat CacheStat) int {
	total := 0
	for _, c := range e.caches {
		total += c.Stat(stat)
	}
	return total
}
