//go:build !amd64

package bitrank

import "unsafe"

// prefetchT0 is a no-op on architectures without a wired prefetch
// intrinsic; correctness of the binary-search descent doesn't depend on it.
func prefetchT0(addr unsafe.Pointer) {}
