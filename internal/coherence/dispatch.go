package coherence

// procHandler implements one protocol's reaction to a processor request,
// given the block's state before the request and its (already
// offset-stripped) block address.
type procHandler func(c *Cache, state BlockState, blockAddress uint64)

// busHandler implements one protocol's reaction to a snooped bus request
// for the given block address, given the local state of that block.
type busHandler func(c *Cache, state BlockState, blockAddress uint64)

// procRdTable and procWrTable are keyed by Protocol; busTable is keyed by
// Protocol then BusRequestKind. Together they form the "single two-level
// dispatch table keyed by (protocol, current state, request kind)" of the
// redesign note: protocol and request kind select the handler, and the
// handler itself switches on state — the state axis doesn't need its own
// map level because most (protocol, request) pairs only react to two or
// three of the six states, and a literal switch reads closer to the
// published protocol diagrams than a third map level would.
var (
	procRdTable = map[Protocol]procHandler{}
	procWrTable = map[Protocol]procHandler{}
	busTable    = map[Protocol]map[BusRequestKind]busHandler{}
)

// registerBusHandler adds one (protocol, request kind) entry to busTable,
// called from each protocol file's init().
func registerBusHandler(p Protocol, req BusRequestKind, h busHandler) {
	t, ok := busTable[p]
	if !ok {
		t = map[BusRequestKind]busHandler{}
		busTable[p] = t
	}
	t[req] = h
}

// writeBackIfDirty emits a Flush for blockAddress and counts a writeback
// if evictedState is one of dirtyStates. Used for dirty evictions (§4.2);
// the snoop handlers emit their own Flush inline.
func writeBackIfDirty(c *Cache, evictedState BlockState, blockAddress uint64, dirtyStates ...BlockState) {
	for _, s := range dirtyStates {
		if evictedState == s {
			c.bus.Send(Flush, blockAddress, c.id)
			c.incr(Writebacks)
			return
		}
	}
}

// badState panics on a state the active protocol's dispatch table never
// admits reaching — an internal invariant violation (§7), not user error.
func badState(protocol Protocol, state BlockState) {
	panic("coherence: " + protocol.String() + " protocol dispatch reached unreachable state " + state.String())
}
