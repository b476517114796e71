//go:build linux

package bitrank

import "golang.org/x/sys/unix"

// Linux MAP_HUGETLB page-size encoding: bits 26-31 of the flags word carry
// log2(page size) when MAP_HUGE_2MB or similar isn't already defined by the
// vendored unix package for this GOARCH.
const (
	mapHugeShift = 26
	mapHuge2MB   = 21 << mapHugeShift
)

// tryAllocHugePages attempts to back numBytes with an anonymous
// MAP_HUGETLB mapping using 2 MiB pages, rounding up to the next page
// boundary. Returns ok=false if the kernel has no huge pages reserved
// (ENOMEM) or refuses the request for any other reason (EINVAL on kernels
// without hugetlbfs support).
func tryAllocHugePages(numBytes int) (raw []byte, release func() error, ok bool) {
	length := roundUpPow2(numBytes, 1<<21)
	full, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB|mapHuge2MB,
	)
	if err != nil {
		return nil, nil, false
	}
	return full[:numBytes], func() error { return unix.Munmap(full) }, true
}

func roundUpPow2(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
