package coherence

// FESI has no Modified state: Forward doubles as the sole-writer state, so
// a write hit on Forward broadcasts BusUpgr (peers may hold stale Shared
// copies) without the cache itself changing state. Evicting a Forward line
// tries to hand the token to another sharer first (SetF) and only falls
// back to a real writeback if nobody claims it (§4.5).

func init() {
	procRdTable[FESI] = fesiProcRd
	procWrTable[FESI] = fesiProcWr
	registerBusHandler(FESI, BusRd, fesiBusRd)
	registerBusHandler(FESI, BusRdX, fesiBusRdX)
	registerBusHandler(FESI, BusUpgr, fesiBusUpgr)
	registerBusHandler(FESI, SetF, fesiSetF)
}

// evictForward is the eviction tail shared by FESI's ProcRd and ProcWr
// misses: a Forward victim tries to hand its token to a peer via SetF
// before resorting to a real writeback.
func evictForward(c *Cache, victim evictedBlock) {
	if victim.block.State != Forward {
		return
	}
	c.bus.Send(SetF, victim.address, c.id)
	if !c.bus.Supplied() {
		c.bus.Send(Flush, victim.address, c.id)
		c.incr(Writebacks)
	}
}

func fesiProcRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Forward, Exclusive, Shared:
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

		evictForward(c, victim)
		c.incr(ReadMisses)
	default:
		badState(FESI, state)
	}
}

func fesiProcWr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Forward:
		c.MoveToMRU(blockAddress)
		c.bus.Send(BusUpgr, blockAddress, c.id)
	case Exclusive:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Forward)
	case Shared:
		c.MoveToMRU(blockAddress)
		c.SetState(blockAddress, Forward)
		c.bus.Send(BusUpgr, blockAddress, c.id)
	case Invalid:
		c.bus.Send(BusRdX, blockAddress, c.id)
		supplied := c.bus.Supplied()
		if !supplied {
			c.incr(FromLLC)
		}

		victim := c.insertBlock(blockAddress, Forward)
		evictForward(c, victim)
		c.incr(WriteMisses)
	default:
		badState(FESI, state)
	}
}

func fesiBusRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Forward, Exclusive:
		c.SetState(blockAddress, Shared)
		c.bus.Send(FlushPrime, blockAddress, c.id)
		c.bus.SetSharedLine()
		c.bus.SetSupplied()
		c.incr(Provided)
	case Shared:
		// Never resupplies; the Forward token (if any) owns that job.
	case Invalid:
		// no reaction
	default:
		badState(FESI, state)
	}
}

func fesiBusRdX(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Forward, Exclusive:
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
		badState(FESI, state)
	}
}

func fesiBusUpgr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Forward, Exclusive, Shared:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
	case Invalid:
		// no reaction
	default:
		badState(FESI, state)
	}
}

// fesiSetF reassigns the Forward token to a random current sharer: the
// first Shared peer to see it, if none holds it yet this broadcast.
func fesiSetF(c *Cache, state BlockState, blockAddress uint64) {
	if state != Shared {
		return
	}
	if c.bus.Supplied() {
		return
	}
	c.bus.SetSupplied()
	c.SetState(blockAddress, Forward)
	c.incr(Random)
}
