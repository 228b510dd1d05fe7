package ffprobe_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/farcloser/wavewizard/internal/integration/ffprobe"
)

const m4aProbe = `{
  "streams": [
    {"index": 0, "codec_name": "mjpeg", "codec_type": "video"},
    {"index": 1, "codec_name": "alac", "codec_long_name": "ALAC (Apple Lossless Audio Codec)",
     "codec_type": "audio", "sample_fmt": "s32p", "sample_rate": "96000", "channels": 2,
     "bits_per_sample": 0, "bits_per_raw_sample": "24"},
    {"index": 2, "codec_name": "aac", "codec_type": "audio", "sample_fmt": "fltp",
     "sample_rate": "44100", "channels": 2}
  ],
  "format": {"filename": "track.m4a", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}`

func TestAudioStream(t *testing.T) {
	t.Parallel()

	var result ffprobe.Result
	if err := json.Unmarshal([]byte(m4aProbe), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	first, err := result.AudioStream(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Index != 1 || first.NominalBits() != 24 {
		t.Errorf("first audio stream: got index %d, %d bits", first.Index, first.NominalBits())
	}

	second, err := result.AudioStream(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.CodecName != "aac" || second.NominalBits() != 0 {
		t.Errorf("second audio stream: got %s, %d bits", second.CodecName, second.NominalBits())
	}

	if _, err = result.AudioStream(2); !errors.Is(err, ffprobe.ErrNoAudioStream) {
		t.Errorf("got %v, want ErrNoAudioStream", err)
	}
}

func TestNominalBitsFallsBackToContainer(t *testing.T) {
	t.Parallel()

	stream := ffprobe.Stream{BitsPerSample: 16, BitsPerRawSample: "N/A"}
	if got := stream.NominalBits(); got != 16 {
		t.Errorf("got %d, want 16", got)
	}
}
