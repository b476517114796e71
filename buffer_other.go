//go:build !linux && !darwin

package bitrank

// Non-Linux platforms other than darwin have no huge-page tier either; they
// fall through to the anonymous-mmap tier (buffer_mmap.go) or, failing
// that, a plain heap slice.
func tryAllocHugePages(numBytes int) (raw []byte, release func() error, ok bool) {
	return nil, nil, false
}
