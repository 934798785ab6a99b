package coherence

// MOESI replaces MESI's writeback-then-share reaction to BusRd on a dirty
// line with a lazy one: a Modified supplier hands the data over and keeps
// it dirty as Owned, deferring the writeback until the block is evicted or
// invalidated (§4.5). Owned is dirty like Modified (evicting or
// invalidating it writes back), but peers may hold Shared copies, so a
// write hit on Owned broadcasts BusUpgr.

func init() {
	procRdTable[MOESI] = moesiProcRd
	procWrTable[MOESI] = moesiProcWr
	registerBusHandler(MOESI, BusRd, moesiBusRd)
	registerBusHandler(MOESI, BusRdX, moesiBusRdX)
	registerBusHandler(MOESI, BusUpgr, moesiBusUpgr)
}

func moesiProcRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified, Owned, Exclusive, Shared:
		c.MoveToMRU(blockAddress)
	case Invalid:
		c.bus.Send(BusRd, blockAddress, c.id)
		sharedLine := c.bus.SharedLine()
		supplied := c.bus.Supplied()

		victim := c.insertBlock(blockAddress, Shared)
		if !sharedLine {
			c.SetState(blockAddress, Exclusive)
		}
		if !supplied {
			c.incr(FromLLC)
		}

		writeBackIfDirty(c, victim.block.State, victim.address, Modified, Owned)
		c.incr(ReadMisses)
	default:
		badState(MOESI, state)
	}
}

func moesiProcWr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.MoveToMRU(blockAddress)
	case Owned:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Modified)
		c.bus.Send(BusUpgr, blockAddress, c.id)
	case Exclusive:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Modified)
	case Shared:
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
		writeBackIfDirty(c, victim.block.State, victim.address, Modified, Owned)
		c.incr(WriteMisses)
	default:
		badState(MOESI, state)
	}
}

func moesiBusRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Owned)
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Provided)
	case Owned:
		// Already the dirty supplier; stays Owned, no writeback yet.
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Provided)
	case Exclusive:
		c.SetState(blockAddress, Shared)
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Provided)
	case Shared:
		c.bus.SetSharedLine()
	case Invalid:
		// no reaction
	default:
		badState(MOESI, state)
	}
}

func moesiBusRdX(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified, Owned:
		c.SetState(blockAddress, Invalid)
		c.bus.Send(Flush, blockAddress, c.id)
		c.bus.SetSupplied()
		c.incr(Writebacks)
		c.incr(Provided)
		c.incr(Invalidations)
	case Exclusive:
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
		badState(MOESI, state)
	}
}

func moesiBusUpgr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified, Owned:
		c.SetState(blockAddress, Invalid)
		c.bus.Send(Flush, blockAddress, c.id)
		c.incr(Invalidations)
		c.incr(Writebacks)
	case Exclusive, Shared:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
	case Invalid:
		// no reaction
	default:
		badState(MOESI, state)
	}
}
