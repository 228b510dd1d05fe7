package decode_test

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/decode"
	"github.com/farcloser/wavewizard/internal/types"
)

func writeWAV(t *testing.T, name string, sampleRate, depth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer file.Close()

	enc := wav.NewEncoder(file, sampleRate, depth, channels, 1)

	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: depth,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err = enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}

	return path
}

func TestLoadNative16Bit(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, "stereo.wav", 44100, 16, 2, []int{16384, 16384, 1000, -1000, -32768, -32768})

	decoded, err := decode.Load(context.Background(), path, decode.BackendNative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := types.PCMFormat{
		SampleRate:       44100,
		BitDepth:         types.Depth32,
		Channels:         2,
		ExpectedBitDepth: types.Depth16,
	}
	if decoded.Format != want {
		t.Errorf("format: got %+v, want %+v", decoded.Format, want)
	}

	if decoded.BitDepthLabel != "Signed 16 bit PCM" {
		t.Errorf("label: got %q", decoded.BitDepthLabel)
	}

	if decoded.Path != path {
		t.Errorf("path: got %q, want %q", decoded.Path, path)
	}

	if decoded.Frames() != 3 {
		t.Fatalf("frames: got %d, want 3", decoded.Frames())
	}

	if first := binary.LittleEndian.Uint32(decoded.PCM); first != 16384<<16 {
		t.Errorf("first word: got %#x, want left-justified %#x", first, 16384<<16)
	}

	wave := decoded.Waveform()
	if wave.SampleRate != 44100 || len(wave.Samples) != 3 {
		t.Fatalf("waveform: got %d samples at %d Hz", len(wave.Samples), wave.SampleRate)
	}

	expected := []float64{0.5, 0, -1}
	for i, v := range expected {
		if math.Abs(wave.Samples[i]-v) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, wave.Samples[i], v)
		}
	}
}

func TestLoadNative8Bit(t *testing.T) {
	t.Parallel()

	// Unsigned storage: 128 is silence.
	path := writeWAV(t, "mono8.wav", 8000, 8, 1, []int{128, 192, 64})

	decoded, err := decode.Load(context.Background(), path, decode.BackendAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded.Format.ExpectedBitDepth != types.Depth8 || decoded.BitDepthLabel != "Unsigned 8 bit PCM" {
		t.Errorf("got %d / %q", decoded.Format.ExpectedBitDepth, decoded.BitDepthLabel)
	}

	wave := decoded.Waveform()

	expected := []float64{0, 0.5, -0.5}
	for i, v := range expected {
		if math.Abs(wave.Samples[i]-v) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, wave.Samples[i], v)
		}
	}
}

func TestLoadNative24BitReader(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, "hires.wav", 96000, 24, 1, []int{0x123456, -1, 0})

	decoded, err := decode.Load(context.Background(), path, decode.BackendNative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := make([]byte, 12)
	if _, err = decoded.Reader().Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}

	if word := binary.LittleEndian.Uint32(buf); word != 0x12345600 {
		t.Errorf("first word: got %#x, want 0x12345600", word)
	}

	if word := binary.LittleEndian.Uint32(buf[4:]); word != 0xFFFFFF00 {
		t.Errorf("second word: got %#x, want 0xffffff00", word)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("definitely not RIFF data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := decode.Load(context.Background(), garbage, decode.BackendNative); !errors.Is(err, decode.ErrUnsupportedFormat) {
		t.Errorf("garbage: got %v, want ErrUnsupportedFormat", err)
	}

	missing := filepath.Join(dir, "missing.wav")
	if _, err := decode.Load(context.Background(), missing, decode.BackendNative); !errors.Is(err, fault.ErrReadFailure) {
		t.Errorf("missing: got %v, want ErrReadFailure", err)
	}

	if _, err := decode.Load(context.Background(), garbage, decode.Backend("sox")); !errors.Is(err, decode.ErrUnknownBackend) {
		t.Errorf("backend: got %v, want ErrUnknownBackend", err)
	}
}

func TestParseBackend(t *testing.T) {
	t.Parallel()

	cases := map[string]decode.Backend{
		"":       decode.BackendAuto,
		"auto":   decode.BackendAuto,
		"native": decode.BackendNative,
		"ffmpeg": decode.BackendFFmpeg,
	}

	for raw, want := range cases {
		got, err := decode.ParseBackend(raw)
		if err != nil || got != want {
			t.Errorf("ParseBackend(%q): got %q, %v", raw, got, err)
		}
	}

	if _, err := decode.ParseBackend("gstreamer"); !errors.Is(err, decode.ErrUnknownBackend) {
		t.Errorf("got %v, want ErrUnknownBackend", err)
	}
}

func TestWaveformWithoutChannels(t *testing.T) {
	t.Parallel()

	decoded := &decode.Audio{PCM: make([]byte, 16), Format: types.PCMFormat{SampleRate: 8000}}

	if wave := decoded.Waveform(); len(wave.Samples) != 0 {
		t.Errorf("got %d samples, want 0", len(wave.Samples))
	}
}
