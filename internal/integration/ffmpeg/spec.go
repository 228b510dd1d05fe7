package ffmpeg

import (
	"strconv"
	"time"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	name = "ffmpeg"
	// Decoding long hi-res files from slow storage takes a while.
	timeout = 5 * time.Minute
)

func bitDepthToSpec(bitDepth types.BitDepth) string {
	// BitDepth 32 = s32le, 24 = s24le, 16 = s16le
	//nolint:gosec // we fine, gosec
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

func bitDepthToCodec(bitDepth types.BitDepth) string {
	return "pcm_" + bitDepthToSpec(bitDepth)
}
