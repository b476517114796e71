package bitrank

import "testing"

func TestNewBufferZeroLength(t *testing.T) {
	b, err := NewBuffer[uint64](0)
	if err != nil {
		t.Fatalf("NewBuffer(0): %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
	if err := b.Release(); err != nil {
		t.Fatalf("Release on empty buffer: %v", err)
	}
}

func TestNewBufferNegativeLength(t *testing.T) {
	if _, err := NewBuffer[uint64](-1); err == nil {
		t.Fatal("NewBuffer(-1) succeeded, want error")
	}
}

func TestBufferGetSet(t *testing.T) {
	b, err := NewBuffer[uint64](16)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer b.Release()

	for i := 0; i < b.Len(); i++ {
		if got := b.Get(i); got != 0 {
			t.Fatalf("Get(%d) = %d before any Set, want 0", i, got)
		}
	}
	b.Set(5, 0xDEADBEEF)
	if got := b.Get(5); got != 0xDEADBEEF {
		t.Fatalf("Get(5) = %#x, want 0xDEADBEEF", got)
	}
	for i := 0; i < b.Len(); i++ {
		if i == 5 {
			continue
		}
		if got := b.Get(i); got != 0 {
			t.Fatalf("Get(%d) = %d, want 0 (untouched)", i, got)
		}
	}
}

func TestBufferSliceAliasesData(t *testing.T) {
	b, err := NewBuffer[uint64](4)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer b.Release()

	s := b.Slice()
	s[2] = 42
	if got := b.Get(2); got != 42 {
		t.Fatalf("Get(2) = %d after Slice mutation, want 42", got)
	}
}

func TestBufferReleaseIdempotent(t *testing.T) {
	b, err := NewBuffer[uint64](8)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if err := b.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := b.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestBufferLargePagesOptIn(t *testing.T) {
	const n = (4 << 20) / 8 // 4 MiB of uint64s, above largePageThreshold
	b, err := NewBuffer[uint64](n, WithLargePages())
	if err != nil {
		t.Fatalf("NewBuffer with WithLargePages: %v", err)
	}
	defer b.Release()

	if b.Len() != n {
		t.Fatalf("Len() = %d, want %d", b.Len(), n)
	}
	// Whichever backing was chosen (hugepages, anon-mmap, or heap fallback
	// when the sandbox permits neither), the data must still be usable.
	b.Set(n-1, 7)
	if got := b.Get(n - 1); got != 7 {
		t.Fatalf("Get(n-1) = %d, want 7 (backing=%s)", got, b.Backing())
	}
}
