//go:build darwin

package bitrank

// Darwin exposes no MAP_HUGETLB-equivalent through golang.org/x/sys/unix;
// the reference implementation this library follows gates huge pages behind
// __linux__ for the same reason. NewBuffer falls through to the
// anonymous-mmap tier (buffer_mmap.go) on this platform.
func tryAllocHugePages(numBytes int) (raw []byte, release func() error, ok bool) {
	return nil, nil, false
}
