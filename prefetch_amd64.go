//go:build amd64

package bitrank

import "unsafe"

//go:noescape
func prefetchT0(addr unsafe.Pointer)
