package coherence

// MSI admits only {Modified, Shared, Invalid}. It has no Exclusive state,
// so a read miss always installs Shared and a Shared->Modified transition
// always broadcasts BusUpgr even when no peer actually holds a copy —
// the protocol has no way to know better (§4.5).

func init() {
	procRdTable[MSI] = msiProcRd
	procWrTable[MSI] = msiProcWr
	registerBusHandler(MSI, BusRd, msiBusRd)
	registerBusHandler(MSI, BusRdX, msiBusRdX)
	registerBusHandler(MSI, BusUpgr, msiBusUpgr)
}

func msiProcRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified, Shared:
		c.MoveToMRU(blockAddress)
	case Invalid:
		c.bus.Send(BusRd, blockAddress, c.id)
		supplied := c.bus.Supplied()
		if !supplied {
			c.incr(FromLLC)
		}

		victim := c.insertBlock(blockAddress, Shared)
		writeBackIfDirty(c, victim.block.State, victim.address, Modified)
		c.incr(ReadMisses)
	default:
		badState(MSI, state)
	}
}

func msiProcWr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.MoveToMRU(blockAddress)
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
		writeBackIfDirty(c, victim.block.State, victim.address, Modified)
		c.incr(WriteMisses)
	default:
		badState(MSI, state)
	}
}

func msiBusRd(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Shared)
		c.bus.Send(Flush, blockAddress, c.id)
		c.bus.SetSupplied()
		c.incr(Writebacks)
		c.incr(Provided)
	case Shared:
		// No Exclusive optimization in MSI, so shared_line is left alone
		// (open question in §9, resolved there): it's simply never read
		// back by a MSI requester.
		if !c.bus.Supplied() {
			c.bus.SetSupplied()
			c.bus.Send(FlushPrime, blockAddress, c.id)
			c.incr(Provided)
			c.incr(Random)
		}
	case Invalid:
		// no reaction
	default:
		badState(MSI, state)
	}
}

func msiBusRdX(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Invalid)
		c.bus.SetSupplied()
		c.bus.Send(Flush, blockAddress, c.id)
		c.incr(Writebacks)
		c.incr(Invalidations)
		c.incr(Provided)
	case Shared:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
		if !c.bus.Supplied() {
			c.bus.SetSupplied()
			c.bus.Send(FlushPrime, blockAddress, c.id)
			c.incr(Provided)
			c.incr(Random)
		}
	case Invalid:
		// no reaction
	default:
		badState(MSI, state)
	}
}

func msiBusUpgr(c *Cache, state BlockState, blockAddress uint64) {
	switch state {
	case Modified:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
		c.bus.Send(Flush, blockAddress, c.id)
		c.incr(Writebacks)
	case Shared:
		c.SetState(blockAddress, Invalid)
		c.incr(Invalidations)
	case Invalid:
		// no reaction
	default:
		badState(MSI, state)
	}
}
