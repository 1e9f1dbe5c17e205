package reader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the stream compression of an input file.
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionBrotli Compression = "brotli"
	CompressionLZ4    Compression = "lz4"
)

var compressionByExt = map[string]Compression{
	".gz":   CompressionGzip,
	".gzip": CompressionGzip,
	".zst":  CompressionZstd,
	".zstd": CompressionZstd,
	".br":   CompressionBrotli,
	".lz4":  CompressionLZ4,
}

// DetectCompression infers the compression of a file from its extension.
func DetectCompression(path string) Compression {
	return compressionByExt[strings.ToLower(filepath.Ext(path))]
}

// NewDecompressor wraps r so that reads return decompressed bytes. Closing
// the result does not close r.
func NewDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", string(c))
	}
}

type decompressedFile struct {
	io.ReadCloser
	file *os.File
}

func (f *decompressedFile) Close() error {
	err := f.ReadCloser.Close()
	if closeErr := f.file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// openDecompressed opens path and transparently decompresses it according to
// its extension.
func openDecompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	rc, err := NewDecompressor(file, DetectCompression(path))
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &decompressedFile{ReadCloser: rc, file: file}, nil
}
