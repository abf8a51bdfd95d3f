package signer

// Signer interface for signing published catalogs
type Signer interface {
	// SignDetached creates an armored detached signature (catalog.json.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the armored public key consumers verify with
	GetPublicKey() ([]byte, error)
}
