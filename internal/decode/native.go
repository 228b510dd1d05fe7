package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/wav"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// loadNative decodes integer PCM WAV files without external tools.
func loadNative(path string) (*Audio, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrUnsupportedFormat)
	}

	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV format tag %#x", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	if depth != 8 && depth != 16 && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, depth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	pcm := make([]byte, len(buf.Data)*bytesPerSample)
	shift := 32 - depth

	for i, v := range buf.Data {
		// 8-bit WAV is unsigned.
		if depth == 8 {
			v -= 128
		}

		//nolint:gosec // v fits in depth bits
		binary.LittleEndian.PutUint32(pcm[i*bytesPerSample:], uint32(int32(v)<<shift))
	}

	return &Audio{
		Format: types.PCMFormat{
			SampleRate:       int(dec.SampleRate),
			BitDepth:         types.Depth32,
			Channels:         uint(dec.NumChans),
			ExpectedBitDepth: types.BitDepth(depth),
		},
		BitDepthLabel: pcmLabel(depth),
		PCM:           pcm,
	}, nil
}

func pcmLabel(depth int) string {
	if depth == 8 {
		return "Unsigned 8 bit PCM"
	}

	return fmt.Sprintf("Signed %d bit PCM", depth)
}
