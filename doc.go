// Package bitrank implements a compact two-layer rank/select bit vector.
//
// A BitVector interleaves per-block rank headers into a flat array of
// 64-bit words, next to a small per-superblock rank table, so that access
// and rank queries run in O(1) without a separate block-level rank table.
// An optional SelectIndex adds sampled superblock anchors so select queries
// also run in O(1) expected time.
//
// # Basic usage
//
// Building a bit vector:
//
//	bv, err := bitrank.NewBitVector(length)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bv.Set(3)
//	bv.Set(7)
//	bv.Finalize()
//
//	ones := bv.Rank1(10)
//
// Adding select support:
//
//	sel, err := bitrank.NewSelectIndex(bv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pos := sel.Select1(2) // position of the 2nd set bit (1-indexed)
//
// # Package structure
//
//   - Public API: bitvector.go (NewBitVector, Set/Unset/IsSet, Finalize,
//     Rank0/Rank1), select.go (NewSelectIndex, Select0/Select1)
//   - Configuration: params.go (Params, ParamOption), select.go (SelectConfig,
//     SelectOption)
//   - Storage: buffer.go (Buffer[T]), buffer_linux.go/buffer_darwin.go/
//     buffer_other.go (platform-specific backing)
//   - Word-level primitive: wordselect.go, wordselect_amd64.go/.s,
//     wordselect_generic.go
//   - Batch construction: parallel.go (BuildParallel)
//   - Diagnostics: stats.go (Stats), bitvector.go (MemorySpaceBreakdown),
//     log.go (SetLogger)
package bitrank
