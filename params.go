package bitrank

import (
	"fmt"

	bitrankerrors "github.com/succinct-go/bitrank/errors"
)

// Default geometry, matching a 64-byte cache line block with a 14-bit
// superblock exponent (superblock width 16384 bits, 32 blocks per
// superblock).
const (
	DefaultBlockWidth  = 512
	DefaultHeaderWidth = 14
)

// Params holds the block/header width geometry of a BitVector. Every
// derived width (block data width, superblock width, words per block, ...)
// is computed from BW and BHW rather than stored, so a Params value is
// always self-consistent once validated.
type Params struct {
	BW  int
	BHW int
}

// ParamOption configures a Params value built by NewParams.
type ParamOption func(*Params)

// WithBlockWidth overrides the default block width (in bits). Must be a
// multiple of 64 and greater than BHW.
func WithBlockWidth(bw int) ParamOption {
	return func(p *Params) { p.BW = bw }
}

// WithHeaderWidth overrides the default block header width (in bits).
func WithHeaderWidth(bhw int) ParamOption {
	return func(p *Params) { p.BHW = bhw }
}

func defaultParams() Params {
	return Params{BW: DefaultBlockWidth, BHW: DefaultHeaderWidth}
}

// NewParams builds and validates a Params value, applying opts over the
// defaults (BW=512, BHW=14).
func NewParams(opts ...ParamOption) (Params, error) {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) validate() error {
	if p.BW <= 0 || p.BW%64 != 0 {
		return fmt.Errorf("%w: block width must be a positive multiple of 64, got %d", bitrankerrors.ErrInvalidGeometry, p.BW)
	}
	if p.BHW <= 0 || p.BHW >= p.BW {
		return fmt.Errorf("%w: block header width must be in (0, %d), got %d", bitrankerrors.ErrInvalidGeometry, p.BW, p.BHW)
	}
	if p.BHW >= 63 {
		return fmt.Errorf("%w: block header width must be less than 63, got %d", bitrankerrors.ErrInvalidGeometry, p.BHW)
	}
	if p.SuperblockWidth() <= p.BW {
		return fmt.Errorf("%w: superblock width (2^%d) must exceed block width (%d)", bitrankerrors.ErrInvalidGeometry, p.BHW, p.BW)
	}
	return nil
}

// BlockDataWidth (BDW) is the number of payload bits carried per block,
// after subtracting the header.
func (p Params) BlockDataWidth() int { return p.BW - p.BHW }

// SuperblockWidth (SBW) is the number of raw bits, header included, spanned
// by one superblock: 2^BHW, so a block's rank header can always represent
// the popcount of every bit preceding it within the superblock.
func (p Params) SuperblockWidth() int { return 1 << uint(p.BHW) }

// WordsPerBlock is BW/64.
func (p Params) WordsPerBlock() int { return p.BW / 64 }

// BlocksPerSuperblock (BPSB) is SuperblockWidth/BW.
func (p Params) BlocksPerSuperblock() int { return p.SuperblockWidth() / p.BW }

// SuperblockDataWidth (SBDW) is the number of payload bits per superblock,
// after subtracting every block header within it.
func (p Params) SuperblockDataWidth() int {
	return p.SuperblockWidth() - p.BlocksPerSuperblock()*p.BHW
}
