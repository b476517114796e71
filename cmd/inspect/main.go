// inspect builds a bit vector from a text pattern or a random fill and
// prints its rank/select statistics.
//
// Usage:
//
//	go run ./cmd/inspect -pattern 10110100
//	go run ./cmd/inspect -length 1000000 -density 0.25 -seed 7
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/succinct-go/bitrank"
)

func main() {
	pattern := flag.String("pattern", "", "explicit 0/1 pattern to build a bit vector from")
	length := flag.Uint64("length", 1_000_000, "bit vector length, used when -pattern is empty")
	density := flag.Float64("density", 0.25, "Bernoulli set-bit probability, used when -pattern is empty")
	seed := flag.Uint64("seed", 1, "PRNG seed for the random fill")
	stride := flag.Int("stride", bitrank.DefaultStride, "select index sampling stride")
	flag.Parse()

	var bv *bitrank.BitVector
	var err error
	if *pattern != "" {
		bv, err = buildFromPattern(*pattern)
	} else {
		bv, err = buildRandom(*length, *density, *seed)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "inspect:", err)
		os.Exit(1)
	}

	if err := bv.Finalize(); err != nil {
		fmt.Fprintln(os.Stderr, "inspect: finalize:", err)
		os.Exit(1)
	}

	var sel *bitrank.SelectIndex
	if bv.Length() > 0 {
		sel, err = bitrank.NewSelectIndex(bv, bitrank.WithStride(*stride))
		if err != nil {
			fmt.Fprintln(os.Stderr, "inspect: select index:", err)
			os.Exit(1)
		}
	}

	stats := bv.Stats(sel)
	fmt.Printf("length:            %d\n", stats.Length)
	fmt.Printf("popcount:          %d\n", stats.Popcount)
	fmt.Printf("block width:       %d\n", stats.Params.BW)
	fmt.Printf("header width:      %d\n", stats.Params.BHW)
	fmt.Printf("payload bits:      %d\n", stats.Breakdown.PayloadBits)
	fmt.Printf("header bits:       %d\n", stats.Breakdown.HeaderBits)
	fmt.Printf("padding bits:      %d\n", stats.Breakdown.PaddingBits)
	fmt.Printf("superblock bits:   %d\n", stats.Breakdown.SuperblockTableBits)
	if sel != nil {
		fmt.Printf("select bits:       %d\n", stats.SelectBits)
		fmt.Printf("select stride:     %d\n", stats.SelectStride)
	}
	fmt.Printf("overhead ratio:    %.4f bits/bit\n", stats.OverheadRatio())
}

func buildFromPattern(pattern string) (*bitrank.BitVector, error) {
	bv, err := bitrank.NewBitVector(uint64(len(pattern)))
	if err != nil {
		return nil, err
	}
	for i, c := range pattern {
		switch c {
		case '1':
			bv.Set(uint64(i))
		case '0':
		default:
			return nil, fmt.Errorf("pattern byte %d: unexpected character %q", i, c)
		}
	}
	return bv, nil
}

func buildRandom(length uint64, density float64, seed uint64) (*bitrank.BitVector, error) {
	bv, err := bitrank.NewBitVector(length)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := uint64(0); i < length; i++ {
		if rng.Float64() < density {
			bv.Set(i)
		}
	}
	return bv, nil
}
