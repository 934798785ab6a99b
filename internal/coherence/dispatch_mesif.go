package coherence

// MESIF adds Forward to MESI: of the readers sharing a block, at most one
// holds Forward and only that one resupplies it on a later BusRd. A bare
// Shared copy never resupplies (§4.5) — that's the whole point of Forward.

func init() {
	procRdTable[MESIF] = mesifProcRd
	procWrTable[MESIF] = mesifProcWr
	registerBusHandler(MESIF, BusRd, mesifBusRd)
	registerBusHandler(MESIF, BusRdX, mesifBusRdX)
	registerBusHandler(MESIF, BusUpgr, mesifBusUpgr)
}

func mesifProcRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified, Exclusive, Shared, Forward:
		c.MoveToMRU(blockAddress)
	case Invalid:
		c.bus.Send(BusRd, blockAddress, c.id)
		sharedLine := c.bus.SharedLine()
		supplied := c.bus.Supplied()

		victim := c.insertBlock(blockAddress, Forward)
		if !sharedLine {
			c.SetState(blockAddress, Exclusive)
		}
		if !supplied {
			c.incr(FromLLC)
		}

		writeBackIfDirty(c, victim.block.State, victim.address, Modified)
		c.incr(ReadMisses)
	default:
		badState(MESIF, state)
	}
}

func mesifProcWr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.MoveToMRU(blockAddress)
	case Exclusive:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Modified)
	case Shared, Forward:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Modified)
		c.bus.Send(BusUpgr, blockAddress, c.id)
	case Invalid:
		c.bus.Send(BusRdX, blockAddress, c.id)
		supplied := c.bus.Supplied()
		if !supplied {
			c.incr(FromLLC)
		}

		victim := c.insertBlock(blockAddress, Modified)
		writeBackIfDirty(c, victim.block.State, victim.address, Modified)
		c.incr(WriteMisses)
	default:
		badState(MESIF, state)
	}
}

func mesifBusRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Shared)
		c.bus.Send(Flush, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Writebacks)
		c.incr(Provided)
	case Exclusive, Forward:
		c.SetState(blockAddress, Shared)
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Provided)
	case Shared:
		// A bare Shared copy never holds Forward, so it asserts the
		// shared line but never resupplies (§4.5).
		c.bus.SetSharedLine()
	case Invalid:
		// no reaction
	default:
		badState(MESIF, state)
	}
}

func mesifBusRdX(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Invalid)
		c.bus.Send(Flush, blockAddress, c.id)
		c.bus.SetSupplied()
		c.incr(Invalidations)
		c.incr(Writebacks)
		c.incr(Provided)
	case Exclusive, Forward:
		c.SetState(blockAddress, Invalid)
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSupplied()
		c.incr(Invalidations)
		c.incr(Provided)
	case Shared:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
	case Invalid:
		// no reaction
	default:
		badState(MESIF, state)
	}
}

func mesifBusUpgr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Invalid)
		c.bus.Send(Flush, blockAddress, c.id)
		c.incr(Invalidations)
		c.incr(Writebacks)
	case Exclusive, Shared, Forward:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
	case Invalid:
		// no reaction
	default:
		badState(MESIF, state)
	}
}
