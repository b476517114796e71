package bitrank

import mmap "github.com/edsrzf/mmap-go"

// tryAllocAnonMmap backs numBytes with an anonymous memory mapping via
// mmap-go's ANON flag (no backing file, f == nil). This is the fallback
// tier used whenever huge pages aren't available on this platform or the
// kernel refuses the huge-page request: still a real mapping the OS can
// page independently of the Go heap, just without large-page TLB benefits.
func tryAllocAnonMmap(numBytes int) (raw []byte, release func() error, ok bool) {
	m, err := mmap.MapRegion(nil, numBytes, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, nil, false
	}
	return []byte(m), func() error { return m.Unmap() }, true
}
