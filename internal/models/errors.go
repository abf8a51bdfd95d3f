package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrListing ErrorType = iota
	ErrDownload
	ErrChecksum
	ErrArchive
	ErrDescriptor
	ErrFileOp
	ErrInvalidConfig
	ErrSigning
	ErrExport
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrListing:
		return "Listing"
	case ErrDownload:
		return "Download"
	case ErrChecksum:
		return "Checksum"
	case ErrArchive:
		return "Archive"
	case ErrDescriptor:
		return "Descriptor"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSigning:
		return "Signing"
	case ErrExport:
		return "Export"
	default:
		return "Unknown"
	}
}

// MarshalText renders the category name in serialized catalogs
func (e ErrorType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// CatalogError represents an error while building or publishing a catalog
type CatalogError struct {
	Type ErrorType
	URL  string
	Err  error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.URL, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *CatalogError) Unwrap() error {
	return e.Err
}
