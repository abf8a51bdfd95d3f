package models

import "time"

// Default repository roots for release and snapshot archetypes
const (
	DefaultReleaseURL  = "https://repo1.maven.org/maven2/com/liferay/faces/archetype/"
	DefaultSnapshotURL = "https://oss.sonatype.org/content/repositories/snapshots/com/liferay/faces/archetype/"
)

// BuildConfig contains configuration for catalog generation
type BuildConfig struct {
	// Init parameters: "snapshot" and "liferay-<N> <jsf>" selector keys
	Params map[string]string `yaml:"params"`

	// Repository roots
	ReleaseURL  string `yaml:"release_url" validate:"required,url"`
	SnapshotURL string `yaml:"snapshot_url" validate:"required,url"`
	Snapshot    bool   `yaml:"snapshot"` // Forces snapshot mode regardless of Params

	// HTTP
	Timeout   time.Duration `yaml:"timeout" validate:"min=0"`
	UserAgent string        `yaml:"user_agent"`
	CacheSize int           `yaml:"cache_size" validate:"min=0"`

	// Traversal
	TempDir         string `yaml:"temp_dir"`
	SuitePattern    string `yaml:"suites"` // Glob over suite names, empty means all
	VerifyChecksums bool   `yaml:"verify_checksums"`

	// Output
	OutputPath    string `yaml:"output"`
	Format        string `yaml:"format" validate:"omitempty,oneof=json yaml"`
	Compression   string `yaml:"compress" validate:"omitempty,oneof=none gzip zstd xz"`
	GPGKeyPath    string `yaml:"gpg_key"`
	GPGPassphrase string `yaml:"-"`
}
