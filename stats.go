package bitrank

// Stats is a read-only snapshot of a BitVector's (and, if present, its
// SelectIndex's) size and geometry. Informational only; it introduces no
// new query primitive.
type Stats struct {
	Length          uint64
	Popcount        uint64
	Params          Params
	MemorySpaceBits uint64
	Breakdown       MemorySpaceBreakdown
	SelectBits      uint64
	SelectStride    int
}

// Stats computes a Stats snapshot of bv, and of sel if non-nil. bv must be
// finalized.
func (bv *BitVector) Stats(sel *SelectIndex) Stats {
	s := Stats{
		Length:          bv.Length(),
		Popcount:        bv.Rank1(bv.Length()),
		Params:          bv.Params(),
		MemorySpaceBits: bv.MemorySpace(),
		Breakdown:       bv.MemorySpaceBreakdown(),
	}
	if sel != nil {
		s.SelectBits = sel.MemorySpace()
		s.SelectStride = sel.cfg.Stride
	}
	return s
}

// OverheadRatio returns the ratio of total storage bits to logical bits,
// i.e. how many storage bits, index included, this structure spends per
// data bit.
func (s Stats) OverheadRatio() float64 {
	if s.Length == 0 {
		return 0
	}
	total := s.MemorySpaceBits + s.SelectBits
	return float64(total) / float64(s.Length)
}
