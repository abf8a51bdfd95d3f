package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// DescriptorEntry is the archive member holding the generated project's POM
const DescriptorEntry = "archetype-resources/pom.xml"

// ErrNoDescriptor is returned when an archive has no DescriptorEntry
var ErrNoDescriptor = errors.New(DescriptorEntry + " not found in archive")

// ExtractDescriptor copies the descriptor out of a jar into destDir/pom.xml
func ExtractDescriptor(jarPath, destDir string) (string, error) {
	jar, err := zip.OpenReader(jarPath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer jar.Close()

	for _, entry := range jar.File {
		if entry.Name != DescriptorEntry {
			continue
		}

		return extractEntry(entry, filepath.Join(destDir, "pom.xml"))
	}

	return "", ErrNoDescriptor
}

func extractEntry(entry *zip.File, destPath string) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", entry.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	_, err = io.Copy(out, rc)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", entry.Name, err)
	}

	return destPath, nil
}
