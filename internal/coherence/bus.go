package coherence

import (
	"github.com/sarchlab/akita/v4/sim"
)

// HookPosBusSend fires once per Bus.Send call, including silent
// (Flush/Flush') broadcasts that never reach a peer cache.
var HookPosBusSend = &sim.HookPos{Name: "CoherenceBusSend"}

// txnIDGen mints transaction IDs for hook payloads fired by both Cache and
// Bus; sequential IDs keep hook traces deterministic and diffable.
var txnIDGen = sim.GetIDGenerator()

// BusSendInfo is the hook payload fired at HookPosBusSend.
type BusSendInfo struct {
	ID           string
	Request      BusRequestKind
	BlockAddress uint64
	SenderID     int
}

// Bus is the broadcast medium and snoop-response aggregator shared by every
// Cache in an Engine. It holds two transient response lines, cleared at the
// start of every non-silent broadcast and only ever set (never cleared) by
// a snooping peer during that broadcast (§4.3, §5).
type Bus struct {
	sim.HookableBase

	caches []*Cache

	sharedLine bool
	supplied   bool

	counters [numBusStats]int
}

// NewBus returns a Bus that snoops the given caches. caches is assumed
// already sorted by ascending Cache.ID — Engine guarantees this by
// constructing caches in id order before building the Bus.
func NewBus(caches []*Cache) *Bus {
	return &Bus{caches: caches}
}

// SharedLine reports whether any peer asserted the shared-line response
// during the broadcast that just completed.
func (b *Bus) SharedLine() bool { return b.sharedLine }

// SetSharedLine asserts the shared-line response. Only ever set to true;
// cleared solely by the next non-silent Send.
func (b *Bus) SetSharedLine() { b.sharedLine = true }

// Supplied reports whether any peer asserted the supplied response during
// the broadcast that just completed.
func (b *Bus) Supplied() bool { return b.supplied }

// SetSupplied asserts the supplied response.
func (b *Bus) SetSupplied() { b.supplied = true }

// Stat reads one of the bus's six per-transaction counters.
func (b *Bus) Stat(stat BusStat) int { return b.counters[stat] }

// Send broadcasts req for blockAddress from senderID. Flush and Flush' are
// bookkeeping-only: they're counted but never reach a peer, since
// cache-to-cache data movement isn't modeled (§4.3). Every other request
// kind clears both transient lines, then invokes HandleBusRequest on every
// cache except the sender, in ascending cache-id order; the sender is
// expected to sample SharedLine/Supplied immediately after Send returns.
func (b *Bus) Send(req BusRequestKind, blockAddress uint64, senderID int) {
	b.counters[busStatFor(req)]++

	txnID := txnIDGen.Generate()
	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosBusSend,
		Item: BusSendInfo{
			ID:           txnID,
			Request:      req,
			BlockAddress: blockAddress,
			SenderID:     senderID,
		},
	})

	if req.isSilent() {
		return
	}

	b.sharedLine = false
	b.supplied = false

	for _, c := range b.caches {
		if c.ID() == senderID {
			continue
		}
		c.HandleBusRequest(req, blockAddress)
	}
}
