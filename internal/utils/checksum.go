package utils

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Checksum contains the checksums Maven repositories publish for a file
type Checksum struct {
	SHA1   string
	SHA256 string
	Size   int64
}

// CalculateChecksums calculates all checksums for a file in a single pass
func CalculateChecksums(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sha1Hash := sha1.New()
	sha256Hash := sha256.New()

	// Use MultiWriter to calculate all hashes at once
	multiWriter := io.MultiWriter(sha1Hash, sha256Hash)

	size, err := io.Copy(multiWriter, f)
	if err != nil {
		return nil, err
	}

	return &Checksum{
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		Size:   size,
	}, nil
}

// ParseChecksumFile reads the digest from a .sha1/.sha256 sidecar.
// Sidecars hold either the bare digest or "<digest>  <filename>".
func ParseChecksumFile(data []byte) string {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// FormatChecksumFile renders a sha256sum-compatible sidecar line
func FormatChecksumFile(digest, filename string) []byte {
	return []byte(digest + "  " + filename + "\n")
}
