package utils

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression names accepted by Compress
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionXZ   = "xz"
)

// CompressionExt returns the file extension for a compression name
func CompressionExt(name string) string {
	switch name {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	case CompressionXZ:
		return ".xz"
	default:
		return ""
	}
}

// Compress compresses data with the named algorithm
func Compress(name string, data []byte) ([]byte, error) {
	switch name {
	case "", CompressionNone:
		return data, nil
	case CompressionGzip:
		return GzipCompress(data)
	case CompressionZstd:
		return ZstdCompress(data)
	case CompressionXZ:
		return XZCompress(data)
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ZstdCompress compresses data using zstandard
func ZstdCompress(data []byte) ([]byte, error) {
	w, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	return w.EncodeAll(data, nil), nil
}

// XZCompress compresses data using xz
func XZCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
