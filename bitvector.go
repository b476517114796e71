package bitrank

import (
	"fmt"
	"math/bits"

	bitsutil "github.com/succinct-go/bitrank/internal/bits"

	bitrankerrors "github.com/succinct-go/bitrank/errors"
	"go.uber.org/zap"
)

// BitVector is a two-layer rank-combined bit vector: block-level popcount
// headers are interleaved into the first word of every block, and
// superblock-level popcounts are kept in a parallel table, so Rank0/Rank1
// run in O(1) with no separate rank index.
//
// Mutation (Set/Unset) is only valid before Finalize; rank queries
// (Rank0/Rank1) are only valid after. IsSet is valid at any time. There is
// no dynamic insertion/deletion and no concurrent-mutation support.
type BitVector struct {
	params          Params
	length          uint64
	numBlocks       uint64
	numSuperblocks  uint64
	data            *Buffer[uint64]
	superblockRanks *Buffer[uint64]
	finalized       bool
}

// NewBitVector allocates a BitVector of length bits, all initially unset.
func NewBitVector(length uint64, opts ...ParamOption) (*BitVector, error) {
	return newBitVector(length, false, false, opts...)
}

// NewBitVectorFilled allocates a BitVector of length bits, all initialized
// to fill. Fast-paths the common "all zero"/"all one" construction with a
// word-splat instead of length individual Set calls.
func NewBitVectorFilled(length uint64, fill bool, opts ...ParamOption) (*BitVector, error) {
	return newBitVector(length, true, fill, opts...)
}

func newBitVector(length uint64, prefill bool, fill bool, opts ...ParamOption) (*BitVector, error) {
	params, err := NewParams(opts...)
	if err != nil {
		return nil, err
	}

	bdw := uint64(params.BlockDataWidth())
	sbdw := uint64(params.SuperblockDataWidth())
	wpb := uint64(params.WordsPerBlock())
	bpsb := uint64(params.BlocksPerSuperblock())

	numBlocks := bitsutil.DivCeil(maxU64(length, 1), bdw)
	if length == 0 {
		numBlocks = 0
	}
	numSuperblocks := bitsutil.DivCeil(maxU64(length, 1), sbdw)
	if length == 0 {
		numSuperblocks = 0
	}

	// Reserve one full extra superblock's worth of blocks as padding so
	// select's binary search can always probe past the last real block
	// without a bounds check. Finalize gives padded blocks inside the last
	// real superblock that superblock's final running rank as their header,
	// and padded blocks past the next superblock boundary a header of 0.
	totalBlocks := numBlocks + bpsb
	totalWords := totalBlocks * wpb

	data, err := NewBuffer[uint64](int(totalWords))
	if err != nil {
		return nil, err
	}
	sbRanks, err := NewBuffer[uint64](int(numSuperblocks) + 1)
	if err != nil {
		return nil, err
	}

	bv := &BitVector{
		params:          params,
		length:          length,
		numBlocks:       numBlocks,
		numSuperblocks:  numSuperblocks,
		data:            data,
		superblockRanks: sbRanks,
	}

	if prefill && fill {
		words := data.Slice()
		for i := range words {
			words[i] = ^uint64(0)
		}
		// Clear any trailing bits beyond length in the last real block so
		// popcounts and rank/select stay exact; Finalize will overwrite
		// header bits regardless.
		bv.clearTrailingSlack()
	}

	logger.Debug("bitrank: allocated bit vector",
		zap.Uint64("length", length),
		zap.Int("block_width", params.BW),
		zap.Int("header_width", params.BHW),
		zap.Uint64("num_blocks", numBlocks),
	)

	return bv, nil
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// clearTrailingSlack zeroes payload bits at or beyond bv.length in the
// final block, so an all-ones fill doesn't count phantom set bits past the
// declared length.
func (bv *BitVector) clearTrailingSlack() {
	if bv.length == 0 || bv.numBlocks == 0 {
		return
	}
	bdw := uint64(bv.params.BlockDataWidth())
	bhw := uint64(bv.params.BHW)
	wpb := uint64(bv.params.WordsPerBlock())

	lastBlockStart := (bv.numBlocks - 1) * bdw
	usedInLastBlock := bv.length - lastBlockStart // in (0, bdw]

	words := bv.data.Slice()
	base := (bv.numBlocks - 1) * wpb
	for localBit := usedInLastBlock; localBit < bdw; localBit++ {
		blockPos := localBit + bhw
		wordIdx := base + blockPos/64
		bitOff := uint(blockPos % 64)
		words[wordIdx] &^= uint64(1) << bitOff
	}
}

// locate maps a logical bit position to its word index and bit offset
// within the flat data buffer, skipping over the header bits of the
// containing block.
func (bv *BitVector) locate(pos uint64) (wordIdx uint64, bitOff uint) {
	bdw := uint64(bv.params.BlockDataWidth())
	bhw := uint64(bv.params.BHW)
	wpb := uint64(bv.params.WordsPerBlock())

	block := pos / bdw
	blockPos := pos%bdw + bhw
	wordIdx = block*wpb + blockPos/64
	bitOff = uint(blockPos % 64)
	return
}

// Set sets the bit at pos to 1. Undefined for pos >= Length() or after
// Finalize.
func (bv *BitVector) Set(pos uint64) {
	wordIdx, bitOff := bv.locate(pos)
	words := bv.data.Slice()
	words[wordIdx] |= uint64(1) << bitOff
}

// Unset sets the bit at pos to 0. Undefined for pos >= Length() or after
// Finalize.
func (bv *BitVector) Unset(pos uint64) {
	wordIdx, bitOff := bv.locate(pos)
	words := bv.data.Slice()
	words[wordIdx] &^= uint64(1) << bitOff
}

// SetBit sets the bit at pos to v. Undefined for pos >= Length() or after
// Finalize.
func (bv *BitVector) SetBit(pos uint64, v bool) {
	if v {
		bv.Set(pos)
	} else {
		bv.Unset(pos)
	}
}

// IsSet reports whether the bit at pos is 1. Valid before or after
// Finalize; undefined for pos >= Length().
func (bv *BitVector) IsSet(pos uint64) bool {
	wordIdx, bitOff := bv.locate(pos)
	return (bv.data.Slice()[wordIdx]>>bitOff)&1 == 1
}

// Finalize computes every block and superblock rank header from the
// current bit contents. Must be called exactly once, after all Set/Unset
// calls and before any Rank/Select query. Calling it twice returns
// ErrAlreadyFinalized.
func (bv *BitVector) Finalize() error {
	if bv.finalized {
		return bitrankerrors.ErrAlreadyFinalized
	}
	words := bv.data.Slice()
	sbRanks := bv.superblockRanks.Slice()

	wpb := uint64(bv.params.WordsPerBlock())
	bpsb := uint64(bv.params.BlocksPerSuperblock())
	bhw := uint(bv.params.BHW)
	headerMask := bitsutil.LowMask(bhw)
	wordsPerSuperblock := wpb * bpsb

	var curRank, curBlockRank uint64
	var sb uint64
	numRealWords := bv.numBlocks * wpb

	var i uint64
	for i = 0; i < numRealWords; i += wpb {
		if i%wordsPerSuperblock == 0 {
			curRank += curBlockRank
			sbRanks[sb] = curRank
			sb++
			curBlockRank = 0
		}
		words[i] = (words[i] &^ headerMask) | curBlockRank
		curBlockRank += blockPopcountAt(words, i, wpb, bhw)
	}

	// Sentinel entry for Rank1(length) when length lands exactly on a
	// superblock boundary: curRank/curBlockRank here hold, respectively, the
	// popcount of every superblock before the last real one and the last
	// real superblock's own popcount, whose sum is the vector's total
	// popcount.
	if uint64(len(sbRanks)) > bv.numSuperblocks {
		sbRanks[bv.numSuperblocks] = curRank + curBlockRank
	}

	total := uint64(len(words))
	for ; i < total; i += wpb {
		if i%wordsPerSuperblock == 0 {
			curBlockRank = 0
		}
		words[i] = curBlockRank
	}

	bv.finalized = true
	return nil
}

func blockPopcountAt(words []uint64, wordBase, wordsPerBlock uint64, bhw uint) uint64 {
	pc := uint64(bits.OnesCount64(words[wordBase] >> bhw))
	for j := wordBase + 1; j < wordBase+wordsPerBlock; j++ {
		pc += uint64(bits.OnesCount64(words[j]))
	}
	return pc
}

// BlockPopcount returns the number of set payload bits in block b,
// recomputed directly from the payload (not the cached header, which holds
// the running rank *preceding* the block, not the block's own popcount).
func (bv *BitVector) BlockPopcount(b uint64) uint64 {
	words := bv.data.Slice()
	wpb := uint64(bv.params.WordsPerBlock())
	return blockPopcountAt(words, b*wpb, wpb, uint(bv.params.BHW))
}

// Rank1 returns the number of set bits in [0, pos). Undefined before
// Finalize or for pos > Length().
func (bv *BitVector) Rank1(pos uint64) uint64 {
	words := bv.data.Slice()
	bdw := uint64(bv.params.BlockDataWidth())
	bhw := uint64(bv.params.BHW)
	wpb := uint64(bv.params.WordsPerBlock())
	sbdw := uint64(bv.params.SuperblockDataWidth())

	numBlock := pos / bdw
	blockPos := pos%bdw + bhw
	numWord := blockPos / 64
	wordPos := blockPos % 64
	numSuperblock := pos / sbdw

	rank := bv.superblockRanks.Slice()[numSuperblock]
	base := numBlock * wpb
	firstWord := words[base]
	rank += firstWord & bitsutil.LowMask(uint(bhw))

	if numWord == 0 {
		shift := uint((64 + bhw) - wordPos)
		rank += uint64(bits.OnesCount64((firstWord >> bhw) << shift))
	} else {
		rank += uint64(bits.OnesCount64(firstWord >> bhw))
		var w uint64 = 1
		for w < numWord {
			rank += uint64(bits.OnesCount64(words[base+w]))
			w++
		}
		shift := uint(64 - wordPos)
		rank += uint64(bits.OnesCount64(words[base+w] << shift))
	}
	return rank
}

// Rank0 returns the number of unset bits in [0, pos). Undefined before
// Finalize or for pos > Length().
func (bv *BitVector) Rank0(pos uint64) uint64 {
	return pos - bv.Rank1(pos)
}

// RangePopcount returns the number of set bits in [lo, hi). A thin
// convenience over two Rank1 calls.
func (bv *BitVector) RangePopcount(lo, hi uint64) uint64 {
	return bv.Rank1(hi) - bv.Rank1(lo)
}

// Length returns the number of logical bits in the vector.
func (bv *BitVector) Length() uint64 { return bv.length }

// NumBlocks returns the number of real (non-padding) blocks.
func (bv *BitVector) NumBlocks() uint64 { return bv.numBlocks }

// NumSuperblocks returns the number of real superblocks.
func (bv *BitVector) NumSuperblocks() uint64 { return bv.numSuperblocks }

// Params returns the geometry this vector was constructed with.
func (bv *BitVector) Params() Params { return bv.params }

// Finalized reports whether Finalize has been called.
func (bv *BitVector) Finalized() bool { return bv.finalized }

// Data returns the raw word buffer backing the vector, header bits and
// padding included. Intended for diagnostics and SelectIndex construction,
// not general use.
func (bv *BitVector) Data() []uint64 { return bv.data.Slice() }

// SuperblockRanks returns the raw superblock rank table.
func (bv *BitVector) SuperblockRanks() []uint64 { return bv.superblockRanks.Slice() }

// MemorySpace returns the number of bits occupied by the vector's real
// blocks (payload and headers) and its superblock table. The padding blocks
// are not counted.
func (bv *BitVector) MemorySpace() uint64 {
	br := bv.MemorySpaceBreakdown()
	return br.PayloadBits + br.HeaderBits + br.SuperblockTableBits
}

// MemorySpaceBreakdown reports the vector's storage cost split by role.
type MemorySpaceBreakdown struct {
	PayloadBits         uint64
	HeaderBits          uint64
	PaddingBits         uint64
	SuperblockTableBits uint64
}

// MemorySpaceBreakdown splits MemorySpace into payload, header, and
// superblock-table components, and also reports the padding blocks'
// size, which MemorySpace does not include.
func (bv *BitVector) MemorySpaceBreakdown() MemorySpaceBreakdown {
	bdw := uint64(bv.params.BlockDataWidth())
	bhw := uint64(bv.params.BHW)
	bw := uint64(bv.params.BW)
	bpsb := uint64(bv.params.BlocksPerSuperblock())

	return MemorySpaceBreakdown{
		PayloadBits:         bv.numBlocks * bdw,
		HeaderBits:          bv.numBlocks * bhw,
		PaddingBits:         bpsb * bw,
		SuperblockTableBits: uint64(bv.superblockRanks.Len()) * 64,
	}
}

// Release returns any large-page or mmap backing used by this vector to the
// OS.
func (bv *BitVector) Release() error {
	if err := bv.data.Release(); err != nil {
		return fmt.Errorf("release data buffer: %w", err)
	}
	return bv.superblockRanks.Release()
}
