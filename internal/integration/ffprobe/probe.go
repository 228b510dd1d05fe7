// Package ffprobe reads container and stream metadata through the ffprobe binary.
//
//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/integration/binary"
)

var ErrNoAudioStream = errors.New("audio stream not found")

const (
	name = "ffprobe"
	// Spinning up a sleeping drive or fetching over the network can take a while.
	timeout = 60 * time.Second
)

// Result contains the parts of ffprobe output the decoder relies on.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

/*
Where the nominal bit depth lives:

	FLAC, ALAC     bits_per_raw_sample (bits_per_sample often 0)
	WAV, AIFF      bits_per_sample
	MP3, AAC, Opus neither: lossy codecs have no bit depth, sample_fmt is the decoder's float format
*/

// Stream is a single ffprobe stream entry.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`                    // flac
	CodecLongName    string `json:"codec_long_name"`               // FLAC (Free Lossless Audio Codec)
	CodecType        string `json:"codec_type"`                    // audio
	SampleFmt        string `json:"sample_fmt,omitempty"`          // s16, s32, fltp
	SampleRate       string `json:"sample_rate,omitempty"`         // 44100
	Channels         int    `json:"channels,omitempty"`            // 2
	ChannelLayout    string `json:"channel_layout,omitempty"`      // stereo
	Duration         string `json:"duration,omitempty"`            // 310.666667
	BitRate          string `json:"bit_rate,omitempty"`            // 956821
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`     // container-reported depth
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"` // codec-reported depth
}

// Format is the container-level entry.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`      // flac, "mov,mp4,m4a,3gp,3g2,mj2"
	FormatLongName string `json:"format_long_name"` // raw FLAC
	Duration       string `json:"duration,omitempty"`
	BitRate        string `json:"bit_rate,omitempty"`
}

// AudioStream returns the n-th (0-based) audio stream.
func (r *Result) AudioStream(n int) (*Stream, error) {
	audioCount := 0

	for i := range r.Streams {
		if r.Streams[i].CodecType != "audio" {
			continue
		}

		if audioCount == n {
			return &r.Streams[i], nil
		}

		audioCount++
	}

	return nil, fmt.Errorf("%w: index %d (file has %d audio streams)", ErrNoAudioStream, n, audioCount)
}

// NominalBits returns the bit depth reported by the codec, falling back to the container. Zero when unknown.
func (s *Stream) NominalBits() int {
	if s.BitsPerRawSample != "" {
		if bits, err := strconv.Atoi(s.BitsPerRawSample); err == nil && bits > 0 {
			return bits
		}
	}

	return s.BitsPerSample
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Require(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
