package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lfsite/archcat/internal/utils"
	"github.com/sirupsen/logrus"
)

const bufferSize = 32 * 1024

// ErrNoChecksum is returned by VerifySHA1 when the repository publishes no .sha1 sidecar
var ErrNoChecksum = errors.New("no checksum published")

// Downloader fetches archetype archives
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a downloader using client (http.DefaultClient when nil)
func NewDownloader(client *http.Client, userAgent string) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{
		client:    client,
		userAgent: userAgent,
	}
}

// Download writes the file at url into destDir under fileName and returns its path
func (d *Downloader) Download(ctx context.Context, url, destDir, fileName string) (string, error) {
	if fileName == "" {
		fileName = filepath.Base(url)
	}
	destPath := filepath.Join(destDir, filepath.Base(fileName))

	resp, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	n, err := io.CopyBuffer(out, resp.Body, make([]byte, bufferSize))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("writing file: %w", err)
	}

	logrus.Debugf("Downloaded %s (%d bytes)", url, n)
	return destPath, nil
}

// VerifySHA1 compares the file against the <url>.sha1 sidecar and returns the digest
func (d *Downloader) VerifySHA1(ctx context.Context, url, path string) (string, error) {
	sum, err := utils.CalculateChecksums(path)
	if err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	resp, err := d.get(ctx, url+".sha1")
	if err != nil {
		return sum.SHA1, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return sum.SHA1, ErrNoChecksum
	}
	if resp.StatusCode != http.StatusOK {
		return sum.SHA1, fmt.Errorf("downloading %s.sha1: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return sum.SHA1, fmt.Errorf("reading %s.sha1: %w", url, err)
	}

	expected := utils.ParseChecksumFile(data)
	if expected != sum.SHA1 {
		return sum.SHA1, fmt.Errorf("sha1 mismatch for %s: repository has %s, downloaded %s", url, expected, sum.SHA1)
	}

	return sum.SHA1, nil
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	return resp, nil
}
