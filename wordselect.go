package bitrank

import "math/bits"

// wordSelect1Impl is resolved once at init time based on CPU feature
// detection (see wordselect_amd64.go/wordselect_generic.go), so the hot
// select loop pays no per-call dispatch cost beyond an indirect call.
var wordSelect1Impl func(w uint64, k int) int = wordSelect1Binary

// wordSelect1 returns the 0-indexed bit position of the k-th set bit in w
// (1-indexed rank: k=1 selects the lowest set bit). Undefined if w has
// fewer than k set bits.
func wordSelect1(w uint64, k int) int {
	return wordSelect1Impl(w, k)
}

// WordSelect1Linear finds the k-th set bit in w by a straightforward linear
// scan. Exported as a correctness oracle for the binary-search and PDEP
// implementations; never chosen by the runtime dispatcher.
func WordSelect1Linear(w uint64, k int) int {
	pos := -1
	for k > 0 {
		k -= int(w & 1)
		w >>= 1
		pos++
	}
	return pos
}

// wordSelect1Binary finds the k-th set bit in w via branchless binary
// search over cumulative popcounts of successively narrower prefixes.
func wordSelect1Binary(w uint64, k int) int {
	const width = 64
	pos := 0
	length := width
	for length > 1 {
		half := length / 2
		length -= half
		if bits.OnesCount64(w<<uint(width-(pos+half))) < k {
			pos += half
		}
	}
	return pos
}
