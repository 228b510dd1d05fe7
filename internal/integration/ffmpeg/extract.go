package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/integration/binary"
	"github.com/farcloser/wavewizard/internal/types"
)

// ExtractStream decodes a specific audio stream of the file at path into raw interleaved PCM.
// Channels are kept as-is; down-mixing is left to the caller.
// The input is opened by ffmpeg itself: containers with trailing indexes (mp4, m4a) need a seekable source.
func ExtractStream(
	ctx context.Context,
	path string,
	output io.Writer,
	streamIndex int,
	format *types.PCMFormat,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "start")

	ffmpegPath, err := binary.Require(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // path is intentionally user-provided
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-nostdin",
		"-i", path,
		"-map", "0:a:"+strconv.Itoa(streamIndex),
		"-f", bitDepthToSpec(format.BitDepth),
		"-acodec", bitDepthToCodec(format.BitDepth),
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
