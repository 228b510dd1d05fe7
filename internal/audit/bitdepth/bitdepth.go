package bitdepth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/types"
)

var ErrUnsupportedLayout = errors.New("bit depth authenticity requires 32-bit PCM")

const bytesPerSample = 4

// Authenticity detects if audio is zero-padded to its nominal bit depth.
// PCM is read as little-endian, left-justified 32-bit samples: a "24-bit" file that's really 16-bit
// leaves the lowest byte of its 24-bit word zero in every sample.
func Authenticity(r io.Reader, format types.PCMFormat) (*types.BitDepthAuthenticity, error) {
	if format.BitDepth != types.Depth32 {
		return nil, fmt.Errorf("%w: got %d-bit", ErrUnsupportedLayout, format.BitDepth)
	}

	claimed := format.ExpectedBitDepth

	// Nothing finer than a byte to test against.
	if claimed <= types.Depth8 || claimed > types.Depth32 {
		return &types.BitDepthAuthenticity{
			Claimed:   claimed,
			Effective: claimed,
		}, nil
	}

	// Lowest byte of the claimed word: any bit set there means the full depth is in use.
	genuineMask := uint32(0xFF) << (types.Depth32 - claimed)

	buf := make([]byte, bytesPerSample*4096)

	var usedBits uint32

	var samples uint64

	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			data := buf[:(n/bytesPerSample)*bytesPerSample]

			for i := 0; i < len(data); i += bytesPerSample {
				usedBits |= binary.LittleEndian.Uint32(data[i:])
				samples++
			}

			if usedBits&genuineMask != 0 {
				return &types.BitDepthAuthenticity{
					Claimed:   claimed,
					Effective: claimed,
					Samples:   samples,
				}, nil
			}
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	effective := effectiveBitDepth(usedBits, claimed)

	return &types.BitDepthAuthenticity{
		Claimed:   claimed,
		Effective: effective,
		IsPadded:  effective < claimed,
		Samples:   samples,
	}, nil
}

// effectiveBitDepth rounds the span of used bits up to a whole byte.
// Digital silence carries no evidence either way and keeps the claimed depth.
func effectiveBitDepth(usedBits uint32, claimed types.BitDepth) types.BitDepth {
	if usedBits == 0 {
		return claimed
	}

	span := types.Depth32 - types.BitDepth(bits.TrailingZeros32(usedBits))
	effective := (span + 7) / 8 * 8

	return min(effective, claimed)
}
