package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to a file, creating directories as needed
func WriteFile(path string, data []byte, perm os.FileMode) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ScopedTempDir creates a fresh temporary directory under root (os.TempDir when empty)
// and returns a cleanup function that removes it with everything inside.
func ScopedTempDir(root, pattern string) (string, func() error, error) {
	if root != "" {
		if err := EnsureDir(root); err != nil {
			return "", nil, err
		}
	}

	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return "", nil, err
	}

	cleanup := func() error {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("unable to delete %s: %w", dir, err)
		}
		return nil
	}

	return dir, cleanup, nil
}
