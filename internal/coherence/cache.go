package coherence

import (
	"math/bits"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosProcRequest fires once per processor reference, before the
// protocol dispatch runs.
var HookPosProcRequest = &sim.HookPos{Name: "CoherenceProcRequest"}

// ProcRequestInfo is the hook payload fired at HookPosProcRequest.
type ProcRequestInfo struct {
	ID      string
	CoreID  int
	Op      ProcRequest
	Address uint64
}

// Cache is one processor core's private cache: a fixed number of
// set-associative Sets plus the nine counters of §4.4, mutated only by
// HandleProcRequest (reads, writes) and the dispatch tables in dispatch_*.go.
type Cache struct {
	sim.HookableBase

	id       int
	protocol Protocol

	sets       []*Set
	numSets    int
	numWays    int
	setBits    uint
	offsetBits uint

	bus *Bus

	counters [numCacheStats]int
}

// NewCache builds a Cache with numSets sets (must be a power of two) of
// numWays ways each. offsetBits is the number of low address bits the
// cache strips as the intra-line offset before any set-index/tag
// decomposition.
func NewCache(cacheID int, protocol Protocol, numSets, numWays, offsetBits int) *Cache {
	if numSets <= 0 || numSets&(numSets-1) != 0 {
		panic("coherence: NewCache requires a power-of-two numSets")
	}

	c := &Cache{
		id:         cacheID,
		protocol:   protocol,
		sets:       make([]*Set, numSets),
		numSets:    numSets,
		numWays:    numWays,
		setBits:    uint(bits.TrailingZeros(uint(numSets))),
		offsetBits: uint(offsetBits),
	}
	for i := range c.sets {
		c.sets[i] = NewSet(numWays)
	}
	return c
}

// ID returns the cache's core id.
func (c *Cache) ID() int { return c.id }

// Protocol returns the coherence protocol this cache dispatches under.
func (c *Cache) Protocol() Protocol { return c.protocol }

// Sets returns the cache's sets in index order.
func (c *Cache) Sets() []*Set { return c.sets }

// NumSets returns the number of sets.
func (c *Cache) NumSets() int { return c.numSets }

// NumWays returns the associativity.
func (c *Cache) NumWays() int { return c.numWays }

// SetBus assigns the bus this cache broadcasts snoop transactions on.
// Resolves the Cache<->Bus cyclic reference: Engine builds every Cache,
// then the Bus from that slice, then wires each Cache back to the Bus.
func (c *Cache) SetBus(b *Bus) { c.bus = b }

// Stat reads one of the cache's nine counters.
func (c *Cache) Stat(stat CacheStat) int { return c.counters[stat] }

func (c *Cache) incr(stat CacheStat) { c.counters[stat]++ }

// blockAddressOf strips the intra-line offset bits from a raw processor
// address (§3).
func (c *Cache) blockAddressOf(address uint64) uint64 {
	return address >> c.offsetBits
}

// decomposeBlock splits an already offset-stripped block address into its
// set index and tag. Bus messages always carry block addresses, so
// HandleBusRequest's lookups use this directly, without blockAddressOf.
func (c *Cache) decomposeBlock(blockAddress uint64) (setIndex, tag uint64) {
	setIndex = blockAddress & uint64(c.numSets-1)
	tag = blockAddress >> c.setBits
	return setIndex, tag
}

// reassemble reconstructs a block address from a tag and the set index it
// was found in — the inverse of decomposeBlock, used to address an evicted
// or snooped block (§4.2, §4.5).
func (c *Cache) reassemble(tag, setIndex uint64) uint64 {
	return (tag << c.setBits) | setIndex
}

// StateOf returns the coherence state of the block at blockAddress.
func (c *Cache) StateOf(blockAddress uint64) BlockState {
	setIndex, tag := c.decomposeBlock(blockAddress)
	return c.sets[setIndex].StateOf(tag)
}

// SetState updates the state of the block at blockAddress.
func (c *Cache) SetState(blockAddress uint64, state BlockState) {
	setIndex, tag := c.decomposeBlock(blockAddress)
	c.sets[setIndex].SetState(tag, state)
}

// MoveToMRU relocates the block at blockAddress to its set's MRU position.
func (c *Cache) MoveToMRU(blockAddress uint64) {
	setIndex, tag := c.decomposeBlock(blockAddress)
	c.sets[setIndex].MoveToMRU(tag)
}

// evictedBlock pairs an evicted Block with the address it occupied, since
// a bare Block only carries a tag that is meaningless without its set.
type evictedBlock struct {
	block   Block
	address uint64
}

// insertBlock installs a new block in state at blockAddress, returning the
// block (and its reconstructed address) evicted to make room.
func (c *Cache) insertBlock(blockAddress uint64, state BlockState) evictedBlock {
	setIndex, tag := c.decomposeBlock(blockAddress)
	victim := c.sets[setIndex].Insert(Block{Tag: tag, State: state})
	return evictedBlock{block: victim, address: c.reassemble(victim.Tag, setIndex)}
}

// HandleProcRequest processes one processor reference and performs
// whatever bus broadcasts, state transitions, and counter updates the
// active protocol's dispatch table calls for (§4.5).
func (c *Cache) HandleProcRequest(op ProcRequest, address uint64) {
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosProcRequest,
		Item: ProcRequestInfo{
			ID:      txnIDGen.Generate(),
			CoreID:  c.id,
			Op:      op,
			Address: address,
		},
	})

	blockAddress := c.blockAddressOf(address)
	state := c.StateOf(blockAddress)

	if op == ProcRd {
		c.incr(Reads)
		h, ok := procRdTable[c.protocol]
		if !ok {
			panic("coherence: no ProcRd dispatch for protocol " + c.protocol.String())
		}
		h(c, state, blockAddress)
		return
	}

	c.incr(Writes)
	h, ok := procWrTable[c.protocol]
	if !ok {
		panic("coherence: no ProcWr dispatch for protocol " + c.protocol.String())
	}
	h(c, state, blockAddress)
}

// HandleBusRequest processes a snoop transaction broadcast by a peer cache.
func (c *Cache) HandleBusRequest(req BusRequestKind, blockAddress uint64) {
	state := c.StateOf(blockAddress)

	protoTable, ok := busTable[c.protocol]
	if !ok {
		panic("coherence: no bus dispatch table for protocol " + c.protocol.String())
	}
	h, ok := protoTable[req]
	if !ok {
		// Not every protocol reacts to every request kind (e.g. only FESI
		// uses setF); an absent entry means "no reaction", not a bug.
		return
	}
	h(c, state, blockAddress)
}
