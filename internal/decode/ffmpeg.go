package decode

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/farcloser/wavewizard/internal/integration/ffmpeg"
	"github.com/farcloser/wavewizard/internal/integration/ffprobe"
	"github.com/farcloser/wavewizard/internal/types"
)

// loadFFmpeg probes the first audio stream and decodes it to s32le through ffmpeg.
func loadFFmpeg(ctx context.Context, path string) (*Audio, error) {
	probe, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	stream, err := probe.AudioStream(0)
	if err != nil {
		return nil, err
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %q", ErrUnsupportedFormat, stream.SampleRate)
	}

	if stream.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, stream.Channels)
	}

	format := types.PCMFormat{
		SampleRate:       sampleRate,
		BitDepth:         types.Depth32,
		Channels:         uint(stream.Channels),
		ExpectedBitDepth: expectedBitDepth(stream),
	}

	var pcm bytes.Buffer
	if err = ffmpeg.ExtractStream(ctx, path, &pcm, 0, &format); err != nil {
		return nil, err
	}

	return &Audio{
		Format:        format,
		BitDepthLabel: streamLabel(stream),
		PCM:           pcm.Bytes(),
	}, nil
}

func isFloatFormat(sampleFmt string) bool {
	return strings.HasPrefix(sampleFmt, "flt") || strings.HasPrefix(sampleFmt, "dbl")
}

// expectedBitDepth is the integer depth of the source, rounded up to whole bytes.
// Lossy and floating point sources have none.
func expectedBitDepth(stream *ffprobe.Stream) types.BitDepth {
	bits := stream.NominalBits()
	if bits <= 0 || isFloatFormat(stream.SampleFmt) {
		return types.DepthUnknown
	}

	//nolint:gosec // bits is positive
	return min(types.BitDepth((bits+7)/8*8), types.Depth32)
}

func streamLabel(stream *ffprobe.Stream) string {
	bits := stream.NominalBits()

	switch {
	case bits > 0 && isFloatFormat(stream.SampleFmt):
		return fmt.Sprintf("%d bit float", bits)
	case bits > 0:
		return pcmLabel(bits)
	case stream.CodecLongName != "":
		return stream.CodecLongName
	default:
		return stream.CodecName
	}
}
