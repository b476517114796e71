package bitrank

import "testing"

func TestBitVectorSetUnsetIsSet(t *testing.T) {
	bv, err := NewBitVector(1000)
	if err != nil {
		t.Fatalf("NewBitVector: %v", err)
	}
	defer bv.Release()

	positions := []uint64{0, 1, 63, 64, 497, 498, 511, 512, 999}
	for _, p := range positions {
		bv.Set(p)
	}
	// A bit that is set and then unset must read back as 0.
	bv.Set(700)
	bv.Unset(700)
	if err := bv.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	want := make(map[uint64]bool)
	for _, p := range positions {
		want[p] = true
	}
	for pos := uint64(0); pos < 1000; pos++ {
		if got := bv.IsSet(pos); got != want[pos] {
			t.Fatalf("IsSet(%d) = %v, want %v", pos, got, want[pos])
		}
	}
}

func TestBitVectorFinalizeTwiceFails(t *testing.T) {
	bv, err := NewBitVector(100)
	if err != nil {
		t.Fatalf("NewBitVector: %v", err)
	}
	defer bv.Release()
	if err := bv.Finalize(); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if err := bv.Finalize(); err == nil {
		t.Fatal("second Finalize succeeded, want ErrAlreadyFinalized")
	}
}

func TestBitVectorFilledAllOnes(t *testing.T) {
	for _, n := range []uint64{1, 63, 64, 65, 500, 1000} {
		bv, err := NewBitVectorFilled(n, true)
		if err != nil {
			t.Fatalf("NewBitVectorFilled(%d, true): %v", n, err)
		}
		if err := bv.Finalize(); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if got := bv.Rank1(n); got != n {
			t.Fatalf("length %d: Rank1(length) = %d, want %d", n, got, n)
		}
		for pos := uint64(0); pos < n; pos++ {
			if !bv.IsSet(pos) {
				t.Fatalf("length %d: IsSet(%d) = false, want true", n, pos)
			}
		}
		bv.Release()
	}
}

func TestBitVectorFilledAllZeros(t *testing.T) {
	bv, err := NewBitVectorFilled(777, false)
	if err != nil {
		t.Fatalf("NewBitVectorFilled(777, false): %v", err)
	}
	defer bv.Release()
	if err := bv.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got := bv.Rank1(777); got != 0 {
		t.Fatalf("Rank1(777) = %d, want 0", got)
	}
}

func TestBitVectorRangePopcount(t *testing.T) {
	bitsSlice := randomPattern(2000, 0.3, 42)
	bv := buildFromPattern(t, bitsSlice)
	defer bv.Release()

	for _, r := range [][2]uint64{{0, 2000}, {100, 900}, {0, 0}, {1999, 2000}} {
		want := naiveRank1(bitsSlice, r[1]) - naiveRank1(bitsSlice, r[0])
		if got := bv.RangePopcount(r[0], r[1]); got != want {
			t.Fatalf("RangePopcount(%d, %d) = %d, want %d", r[0], r[1], got, want)
		}
	}
}

func TestBitVectorMemorySpaceBreakdown(t *testing.T) {
	bv, err := NewBitVector(10000)
	if err != nil {
		t.Fatalf("NewBitVector: %v", err)
	}
	defer bv.Release()
	if err := bv.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	br := bv.MemorySpaceBreakdown()
	if br.PayloadBits == 0 {
		t.Fatal("PayloadBits = 0, want > 0")
	}
	sum := br.PayloadBits + br.HeaderBits
	if sum == 0 {
		t.Fatal("payload + header bits = 0")
	}
	if total := bv.MemorySpace(); total != br.PayloadBits+br.HeaderBits+br.SuperblockTableBits {
		t.Fatalf("MemorySpace() = %d, want sum of breakdown %d", total, br.PayloadBits+br.HeaderBits+br.SuperblockTableBits)
	}
}

func TestBitVectorStats(t *testing.T) {
	bitsSlice := randomPattern(5000, 0.2, 7)
	bv := buildFromPattern(t, bitsSlice)
	defer bv.Release()

	sel, err := NewSelectIndex(bv)
	if err != nil {
		t.Fatalf("NewSelectIndex: %v", err)
	}
	stats := bv.Stats(sel)
	wantOnes := naiveRank1(bitsSlice, uint64(len(bitsSlice)))
	if stats.Popcount != wantOnes {
		t.Fatalf("Stats.Popcount = %d, want %d", stats.Popcount, wantOnes)
	}
	if stats.SelectBits == 0 {
		t.Fatal("Stats.SelectBits = 0, want > 0")
	}
	if ratio := stats.OverheadRatio(); ratio <= 1.0 {
		t.Fatalf("OverheadRatio() = %f, want > 1.0 (index always adds overhead)", ratio)
	}
}

func TestParamsInvalidGeometry(t *testing.T) {
	cases := []struct {
		name string
		opts []ParamOption
	}{
		{"zero block width", []ParamOption{WithBlockWidth(0)}},
		{"non-multiple-of-64 block width", []ParamOption{WithBlockWidth(100)}},
		{"header width too large", []ParamOption{WithBlockWidth(128), WithHeaderWidth(128)}},
		{"superblock not larger than block", []ParamOption{WithBlockWidth(512), WithHeaderWidth(1)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewParams(c.opts...); err == nil {
				t.Fatalf("NewParams(%v) succeeded, want error", c.opts)
			}
		})
	}
}
