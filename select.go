package bitrank

import (
	"fmt"
	"math/bits"
	"unsafe"

	bitrankerrors "github.com/succinct-go/bitrank/errors"
	bitsutil "github.com/succinct-go/bitrank/internal/bits"
	"go.uber.org/zap"
)

// DefaultStride is the sampling interval between successive select
// anchors, in set (or unset) bits.
const DefaultStride = 32768

// SelectConfig holds the tunable parameters of a SelectIndex.
type SelectConfig struct {
	Stride       int
	LinearSearch bool
}

// SelectOption configures a SelectConfig built by NewSelectIndex.
type SelectOption func(*SelectConfig)

// WithStride overrides the default sampling interval.
func WithStride(n int) SelectOption {
	return func(c *SelectConfig) { c.Stride = n }
}

// WithLinearSearch selects a linear scan over superblock/block anchors
// instead of the default branchless binary search. Useful mainly for
// testing the two descent strategies against each other.
func WithLinearSearch() SelectOption {
	return func(c *SelectConfig) { c.LinearSearch = true }
}

func defaultSelectConfig() SelectConfig {
	return SelectConfig{Stride: DefaultStride, LinearSearch: false}
}

// SelectIndex adds O(1)-expected select queries to an already-finalized
// BitVector, via a sampled table of superblock anchors for both the set-bit
// and unset-bit rank sequences.
type SelectIndex struct {
	bv          *BitVector
	cfg         SelectConfig
	oneSamples  []uint64
	zeroSamples []uint64
}

// NewSelectIndex builds a SelectIndex over bv, which must already be
// finalized.
func NewSelectIndex(bv *BitVector, opts ...SelectOption) (*SelectIndex, error) {
	if bv == nil {
		return nil, fmt.Errorf("%w: nil bit vector", bitrankerrors.ErrNotFinalized)
	}
	if !bv.Finalized() {
		return nil, bitrankerrors.ErrNotFinalized
	}

	cfg := defaultSelectConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Stride <= 0 {
		return nil, fmt.Errorf("%w: stride must be positive, got %d", bitrankerrors.ErrInvalidGeometry, cfg.Stride)
	}

	totalOnes := bv.Rank1(bv.Length())
	totalZeros := bv.Length() - totalOnes

	si := &SelectIndex{
		bv:          bv,
		cfg:         cfg,
		oneSamples:  make([]uint64, totalOnes/uint64(cfg.Stride)+2),
		zeroSamples: make([]uint64, totalZeros/uint64(cfg.Stride)+2),
	}
	si.build()

	logger.Debug("bitrank: built select index",
		zap.Int("stride", cfg.Stride),
		zap.Bool("linear_search", cfg.LinearSearch),
		zap.Uint64("total_ones", totalOnes),
	)

	return si, nil
}

func (si *SelectIndex) build() {
	bv := si.bv
	if bv.numBlocks == 0 {
		return
	}
	bdw := uint64(bv.params.BlockDataWidth())
	sbdw := uint64(bv.params.SuperblockDataWidth())
	stride := uint64(si.cfg.Stride)

	var curOne, curZero uint64
	var totalOnes, totalZeros uint64
	var threshOne, threshZero uint64

	handle := func(numBlock, ones, zeros uint64) {
		totalOnes += ones
		totalZeros += zeros
		for totalOnes >= threshOne {
			si.oneSamples[curOne] = (numBlock * bdw) / sbdw
			curOne++
			threshOne += stride
		}
		for totalZeros >= threshZero {
			si.zeroSamples[curZero] = (numBlock * bdw) / sbdw
			curZero++
			threshZero += stride
		}
	}

	numBlocks := bv.numBlocks
	for b := uint64(0); b+1 < numBlocks; b++ {
		ones := bv.BlockPopcount(b)
		handle(b, ones, bdw-ones)
	}
	lastBlock := numBlocks - 1
	wrongZeros := numBlocks*bdw - bv.length
	ones := bv.BlockPopcount(lastBlock)
	handle(lastBlock, ones, bdw-ones-wrongZeros)

	si.oneSamples[curOne] = bv.numSuperblocks - 1
	si.zeroSamples[curZero] = bv.numSuperblocks - 1
}

func condAdd(base uint64, cond bool, half uint64) uint64 {
	if cond {
		return base + half
	}
	return base
}

func prefetchIdx(words []uint64, idx uint64) {
	if idx < uint64(len(words)) {
		prefetchT0(unsafe.Pointer(&words[idx]))
	}
}

// Select1 returns the position of the rank-th set bit (1-indexed: rank=1
// returns the first set bit). Undefined for rank outside [1, total ones].
func (si *SelectIndex) Select1(rank uint64) uint64 {
	bv := si.bv
	stride := uint64(si.cfg.Stride)
	nearest := (rank - 1) / stride
	numSuperblock := si.oneSamples[nearest]
	numLastSuperblock := si.oneSamples[nearest+1]

	sbRanks := bv.superblockRanks.Slice()
	if si.cfg.LinearSearch {
		for numSuperblock < numLastSuperblock && sbRanks[numSuperblock+1] < rank {
			numSuperblock++
		}
	} else {
		length := numLastSuperblock - numSuperblock + 1
		for length > 1 {
			half := length / 2
			length -= half
			prefetchIdx(sbRanks, numSuperblock+length/2)
			prefetchIdx(sbRanks, numSuperblock+length/2+half)
			numSuperblock = condAdd(numSuperblock, sbRanks[numSuperblock+half] < rank, half)
		}
	}
	rank -= sbRanks[numSuperblock]

	bpsb := uint64(bv.params.BlocksPerSuperblock())
	wpb := uint64(bv.params.WordsPerBlock())
	bhw := uint64(bv.params.BHW)
	headerMask := bitsutil.LowMask(uint(bhw))
	words := bv.data.Slice()

	numBlock := numSuperblock * bpsb
	numLastBlock := minU64(bv.numBlocks, (numSuperblock+1)*bpsb) - 1

	blockRank1 := func(b uint64) uint64 { return words[b*wpb] & headerMask }

	if si.cfg.LinearSearch {
		for numBlock < numLastBlock && blockRank1(numBlock+1) < rank {
			numBlock++
		}
	} else {
		length := bpsb
		for length > 1 {
			half := length / 2
			length -= half
			prefetchIdx(words, (numBlock+length/2)*wpb)
			prefetchIdx(words, (numBlock+length/2+half)*wpb)
			numBlock = condAdd(numBlock, blockRank1(numBlock+half) < rank, half)
		}
	}
	rank -= blockRank1(numBlock)

	base := numBlock * wpb
	var numWord uint64
	wordRank1 := func() uint64 {
		if numWord == 0 {
			return uint64(bits.OnesCount64(words[base] >> bhw))
		}
		return uint64(bits.OnesCount64(words[base+numWord]))
	}
	for wr := wordRank1(); wr < rank; wr = wordRank1() {
		rank -= wr
		numWord++
	}

	var w uint64
	if numWord == 0 {
		w = words[base] &^ headerMask
	} else {
		w = words[base+numWord]
	}
	bit := wordSelect1(w, int(rank))

	bdw := uint64(bv.params.BlockDataWidth())
	return numBlock*bdw + numWord*64 + uint64(bit) - bhw
}

// Select0 returns the position of the rank-th unset bit (1-indexed).
// Undefined for rank outside [1, total zeros].
func (si *SelectIndex) Select0(rank uint64) uint64 {
	bv := si.bv
	stride := uint64(si.cfg.Stride)
	nearest := (rank - 1) / stride
	numSuperblock := si.zeroSamples[nearest]
	numLastSuperblock := si.zeroSamples[nearest+1]

	sbdw := uint64(bv.params.SuperblockDataWidth())
	sbRanks := bv.superblockRanks.Slice()
	superblockRank0 := func(s uint64) uint64 { return s*sbdw - sbRanks[s] }

	if si.cfg.LinearSearch {
		for numSuperblock < numLastSuperblock && superblockRank0(numSuperblock+1) < rank {
			numSuperblock++
		}
	} else {
		length := numLastSuperblock - numSuperblock + 1
		for length > 1 {
			half := length / 2
			length -= half
			prefetchIdx(sbRanks, numSuperblock+length/2)
			prefetchIdx(sbRanks, numSuperblock+length/2+half)
			numSuperblock = condAdd(numSuperblock, superblockRank0(numSuperblock+half) < rank, half)
		}
	}
	rank -= superblockRank0(numSuperblock)

	bpsb := uint64(bv.params.BlocksPerSuperblock())
	bdw := uint64(bv.params.BlockDataWidth())
	wpb := uint64(bv.params.WordsPerBlock())
	bhw := uint64(bv.params.BHW)
	headerMask := bitsutil.LowMask(uint(bhw))
	words := bv.data.Slice()

	numBlock := numSuperblock * bpsb
	numLastBlock := minU64(bv.numBlocks, (numSuperblock+1)*bpsb) - 1

	blockRank0 := func(b uint64) uint64 {
		return (b%bpsb)*bdw - (words[b*wpb] & headerMask)
	}

	if si.cfg.LinearSearch {
		for numBlock < numLastBlock && blockRank0(numBlock+1) < rank {
			numBlock++
		}
	} else {
		length := bpsb
		for length > 1 {
			half := length / 2
			length -= half
			prefetchIdx(words, (numBlock+length/2)*wpb)
			prefetchIdx(words, (numBlock+length/2+half)*wpb)
			numBlock = condAdd(numBlock, blockRank0(numBlock+half) < rank, half)
		}
	}
	rank -= blockRank0(numBlock)

	base := numBlock * wpb
	var numWord uint64
	wordRank0 := func() uint64 {
		if numWord == 0 {
			return uint64(bits.OnesCount64(^(words[base] | headerMask)))
		}
		return uint64(bits.OnesCount64(^words[base+numWord]))
	}
	for wr := wordRank0(); wr < rank; wr = wordRank0() {
		rank -= wr
		numWord++
	}

	var w uint64
	if numWord == 0 {
		w = words[base] | headerMask
	} else {
		w = words[base+numWord]
	}
	bit := wordSelect1(^w, int(rank))

	return numBlock*bdw + numWord*64 + uint64(bit) - bhw
}

// MemorySpace returns the total number of bits occupied by the select
// index's sample tables.
func (si *SelectIndex) MemorySpace() uint64 {
	return uint64(len(si.oneSamples)+len(si.zeroSamples)) * 64
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
