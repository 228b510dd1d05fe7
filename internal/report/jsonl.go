package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/wavewizard/internal/config"
)

var ErrUnknownCompression = errors.New("unknown compression")

const maxLineSize = 1024 * 1024 // 1MB

//nolint:gochecknoglobals // magic numbers, effectively const
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Extension returns the file suffix for a compression.
func Extension(compression config.Compression) string {
	switch compression {
	case config.CompressionGzip:
		return ".gz"
	case config.CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// WriteJSONL encodes one record per line.
func WriteJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)

	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}

// CreateJSONL writes the records to path with the compression suffix appended and returns the final path.
func CreateJSONL(path string, compression config.Compression, records []Record) (string, error) {
	path += Extension(compression)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	defer file.Close()

	sink, err := compressor(file, compression)
	if err != nil {
		return "", err
	}

	buffered := bufio.NewWriter(sink)

	if err = WriteJSONL(buffered, records); err != nil {
		return "", err
	}

	if err = buffered.Flush(); err != nil {
		return "", err
	}

	if err = sink.Close(); err != nil {
		return "", err
	}

	return path, file.Close()
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressor(w io.Writer, compression config.Compression) (io.WriteCloser, error) {
	switch compression {
	case config.CompressionGzip:
		return gzip.NewWriter(w), nil
	case config.CompressionZstd:
		return zstd.NewWriter(w)
	case config.CompressionNone, "":
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCompression, compression)
	}
}

// decompressor sniffs the stream and undoes gzip or zstd compression.
func decompressor(r io.Reader) (io.ReadCloser, error) {
	buffered := bufio.NewReader(r)

	head, _ := buffered.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return gzip.NewReader(buffered)
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(buffered), nil
	}
}

// Line is a raw JSONL line and its decoded record.
type Line struct {
	Raw    []byte
	Record DigestRecord
}

// ReadJSONL reads a report, compressed or not. Lines that fail to parse are kept as errors.
func ReadJSONL(r io.Reader) ([]Line, error) {
	source, err := decompressor(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer source.Close()

	var lines []Line

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}

		line := Line{Raw: bytes.Clone(scanner.Bytes())}

		if err := json.Unmarshal(line.Raw, &line.Record); err != nil {
			line.Record = DigestRecord{Error: "parse error"}
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return lines, nil
}

// ReadJSONLFile opens and reads the report at path.
func ReadJSONLFile(path string) ([]Line, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	return ReadJSONL(file)
}
