package coherence

// Block is the unit of coherence: a tag paired with its state. A Block with
// State == Invalid is a placeholder slot, not a cached line.
type Block struct {
	Tag   uint64
	State BlockState
}
