package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/lfsite/archcat/internal/models"
	"github.com/lfsite/archcat/internal/signer"
	"github.com/lfsite/archcat/internal/utils"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options controls how a catalog is written
type Options struct {
	Path        string
	Format      string
	Compression string
	Signer      signer.Signer
}

// Result lists the files written by Write
type Result struct {
	CatalogPath   string
	ChecksumPath  string
	SignaturePath string
	PublicKeyPath string
}

// Encode serializes a catalog in the given format
func Encode(catalog *models.Catalog, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		data, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(catalog)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Write encodes, compresses and optionally signs a catalog
func Write(catalog *models.Catalog, opts Options) (*Result, error) {
	data, err := Encode(catalog, opts.Format)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrExport, Err: err}
	}

	data, err = utils.Compress(opts.Compression, data)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrExport, Err: err}
	}

	path := opts.Path + utils.CompressionExt(opts.Compression)
	if err := utils.WriteFile(path, data, 0644); err != nil {
		return nil, &models.CatalogError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write %s: %w", path, err),
		}
	}

	result := &Result{CatalogPath: path}

	checksums, err := utils.CalculateChecksums(path)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrFileOp, Err: err}
	}

	result.ChecksumPath = path + ".sha256"
	sidecar := utils.FormatChecksumFile(checksums.SHA256, filepath.Base(path))
	if err := utils.WriteFile(result.ChecksumPath, sidecar, 0644); err != nil {
		return nil, &models.CatalogError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write %s: %w", result.ChecksumPath, err),
		}
	}

	if opts.Signer != nil {
		if err := sign(opts.Signer, path, data, result); err != nil {
			return nil, err
		}
	} else {
		logrus.Debug("No signer configured, catalog will be unsigned")
	}

	logrus.Infof("Wrote catalog to %s (%d bytes)", path, checksums.Size)
	return result, nil
}

func sign(s signer.Signer, path string, data []byte, result *Result) error {
	sig, err := s.SignDetached(data)
	if err != nil {
		return &models.CatalogError{Type: models.ErrSigning, Err: err}
	}

	result.SignaturePath = path + ".asc"
	if err := utils.WriteFile(result.SignaturePath, sig, 0644); err != nil {
		return &models.CatalogError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write %s: %w", result.SignaturePath, err),
		}
	}

	pub, err := s.GetPublicKey()
	if err != nil {
		return &models.CatalogError{Type: models.ErrSigning, Err: err}
	}

	result.PublicKeyPath = filepath.Join(filepath.Dir(path), "archcat.pub.asc")
	if err := utils.WriteFile(result.PublicKeyPath, pub, 0644); err != nil {
		return &models.CatalogError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write %s: %w", result.PublicKeyPath, err),
		}
	}

	logrus.Info("Catalog signed successfully")
	return nil
}
