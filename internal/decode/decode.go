// Package decode turns audio files into interleaved, left-justified 32-bit PCM plus the metadata the analyzers need.
package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/audit/shared"
	"github.com/farcloser/wavewizard/internal/types"
)

var (
	ErrUnknownBackend    = errors.New("unknown decoder backend")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("no audio samples")
)

// Backend selects how files are decoded.
type Backend string

const (
	// BackendAuto decodes PCM WAV natively and everything else through ffmpeg.
	BackendAuto   Backend = "auto"
	BackendNative Backend = "native"
	BackendFFmpeg Backend = "ffmpeg"
)

// ParseBackend converts a string to a Backend value.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendAuto, "":
		return BackendAuto, nil
	case BackendNative:
		return BackendNative, nil
	case BackendFFmpeg:
		return BackendFFmpeg, nil
	default:
		return "", fmt.Errorf("%w %q (valid: auto, native, ffmpeg)", ErrUnknownBackend, s)
	}
}

// Audio is a fully decoded file.
type Audio struct {
	Path string
	// Format.BitDepth is always Depth32; ExpectedBitDepth is the depth of the source media.
	Format types.PCMFormat
	// BitDepthLabel describes the stored sample format, e.g. "Signed 24 bit PCM". Display only.
	BitDepthLabel string
	// PCM holds interleaved little-endian int32 samples, left-justified.
	PCM []byte
}

// Reader returns a fresh reader over the PCM data.
func (a *Audio) Reader() io.Reader {
	return bytes.NewReader(a.PCM)
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if a.Format.Channels == 0 {
		return 0
	}

	return len(a.PCM) / bytesPerSample / int(a.Format.Channels)
}

// Waveform averages all channels into a mono signal normalized to [-1, 1).
func (a *Audio) Waveform() *types.Waveform {
	channels := int(a.Format.Channels)
	frames := a.Frames()
	samples := make([]float64, frames)

	if channels == 0 {
		return &types.Waveform{Samples: samples, SampleRate: a.Format.SampleRate}
	}

	scale := 1 / (shared.MaxValue32 * float64(channels))

	for frame := range frames {
		offset := frame * channels * bytesPerSample

		var sum float64

		for ch := range channels {
			sum += float64(int32(binary.LittleEndian.Uint32(a.PCM[offset+ch*bytesPerSample:])))
		}

		samples[frame] = sum * scale
	}

	return &types.Waveform{Samples: samples, SampleRate: a.Format.SampleRate}
}

const bytesPerSample = 4

// Load decodes the file at path with the requested backend.
func Load(ctx context.Context, path string, backend Backend) (*Audio, error) {
	slog.Debug("decode.Load", "file path", path, "backend", backend)

	var (
		audio *Audio
		err   error
	)

	switch backend {
	case BackendNative:
		audio, err = loadNative(path)
	case BackendFFmpeg:
		audio, err = loadFFmpeg(ctx, path)
	case BackendAuto, "":
		if isWAV(path) {
			audio, err = loadNative(path)
			if errors.Is(err, ErrUnsupportedFormat) {
				slog.Debug("decode.Load", "file path", path, "fallback", BackendFFmpeg, "reason", err)

				audio, err = loadFFmpeg(ctx, path)
			}
		} else {
			audio, err = loadFFmpeg(ctx, path)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}

	if err != nil {
		return nil, err
	}

	if len(audio.PCM) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyAudio, filepath.Base(path))
	}

	audio.Path = path

	return audio, nil
}

func isWAV(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".wav" || ext == ".wave"
}

func openFile(path string) (*os.File, error) {
	//nolint:gosec // path is intentionally user-provided
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return file, nil
}
