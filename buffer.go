package bitrank

import (
	"fmt"
	"unsafe"

	bitrankerrors "github.com/succinct-go/bitrank/errors"
	"go.uber.org/zap"
)

// word is the constraint for types a Buffer can hold. The library only ever
// instantiates Buffer[uint64], but the constraint matches the fixed-width
// element types a flat rank/select buffer could plausibly hold.
type word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// largePageThreshold is the smallest allocation, in bytes, for which the
// buffer bothers attempting a large-page or anonymous-mmap backing at all;
// below it the fixed cost of an mmap call isn't worth avoiding a GC-scanned
// heap slice.
const largePageThreshold = 2 << 20 // 2 MiB

type backingKind uint8

const (
	backingHeap backingKind = iota
	backingHugePages
	backingAnonMmap
)

func (k backingKind) String() string {
	switch k {
	case backingHugePages:
		return "hugepages"
	case backingAnonMmap:
		return "anon-mmap"
	default:
		return "heap"
	}
}

// Buffer is a fixed-length, allocate-once array of T. Its length is set at
// construction and never changes; there is no append, grow, or resize.
// Backing storage is chosen once by NewBuffer and released explicitly by
// Release, since Go has no destructors.
type Buffer[T word] struct {
	raw      []byte
	data     []T
	kind     backingKind
	release  func() error
	released bool
}

// BufferOption configures the backing strategy of a Buffer built by
// NewBuffer.
type BufferOption func(*bufferConfig)

type bufferConfig struct {
	largePages bool
}

// WithLargePages opts into the huge-page/anonymous-mmap backing tiers for
// allocations at or above largePageThreshold. Off by default: even the
// original reference implementation this library follows gates huge pages
// behind an explicit compile-time flag rather than enabling them
// unconditionally.
func WithLargePages() BufferOption {
	return func(c *bufferConfig) { c.largePages = true }
}

// NewBuffer allocates a Buffer of exactly n elements of T, zero-initialized.
func NewBuffer[T word](n int, opts ...BufferOption) (*Buffer[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative buffer length %d", bitrankerrors.ErrAllocationFailed, n)
	}
	var cfg bufferConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Buffer[T]{kind: backingHeap}
	if n == 0 {
		return b, nil
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	numBytes := n * elemSize

	if cfg.largePages && numBytes >= largePageThreshold {
		if raw, rel, ok := tryAllocHugePages(numBytes); ok {
			b.raw, b.release, b.kind = raw, rel, backingHugePages
		} else if raw, rel, ok := tryAllocAnonMmap(numBytes); ok {
			b.raw, b.release, b.kind = raw, rel, backingAnonMmap
		}
	}
	if b.raw == nil {
		b.raw = make([]byte, numBytes)
	}

	logger.Debug("bitrank: allocated buffer",
		zap.Int("bytes", numBytes),
		zap.String("backing", b.kind.String()),
	)

	b.data = unsafe.Slice((*T)(unsafe.Pointer(&b.raw[0])), n)
	return b, nil
}

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Get returns the element at index i.
func (b *Buffer[T]) Get(i int) T { return b.data[i] }

// Set stores v at index i.
func (b *Buffer[T]) Set(i int, v T) { b.data[i] = v }

// Slice returns the buffer's backing storage as a plain Go slice, for
// hot-loop code that wants direct indexing without the Get/Set call
// overhead. The returned slice aliases the buffer; it is invalidated by
// Release.
func (b *Buffer[T]) Slice() []T { return b.data }

// Backing reports which allocation strategy backs this buffer.
func (b *Buffer[T]) Backing() string { return b.kind.String() }

// Release returns any large-page or mmap backing to the OS. It is a no-op
// for heap-backed buffers (the GC reclaims those) and safe to call more
// than once.
func (b *Buffer[T]) Release() error {
	if b.released {
		return nil
	}
	b.released = true
	if b.release == nil {
		return nil
	}
	return b.release()
}
