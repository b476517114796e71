//go:build amd64

package bitrank

import (
	"math/bits"

	"github.com/klauspost/cpuid/v2"
)

func init() {
	if cpuid.CPU.Supports(cpuid.BMI2) {
		wordSelect1Impl = wordSelect1PDEP
	}
}

//go:noescape
func pdepDeposit(src, mask uint64) uint64

// wordSelect1PDEP finds the k-th set bit in w using the BMI2 PDEP
// instruction: depositing a single bit at position k-1 through the mask w
// scatters it into the bit position we want, then TrailingZeros64 reads it
// off directly.
func wordSelect1PDEP(w uint64, k int) int {
	return bits.TrailingZeros64(pdepDeposit(uint64(1)<<uint(k-1), w))
}
