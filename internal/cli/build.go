package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lfsite/archcat/internal/artifact"
	"github.com/lfsite/archcat/internal/catalog"
	"github.com/lfsite/archcat/internal/export"
	"github.com/lfsite/archcat/internal/listing"
	"github.com/lfsite/archcat/internal/models"
	"github.com/lfsite/archcat/internal/signer"
	"github.com/lfsite/archcat/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "archcat/1.0"
	defaultCacheSize = 256

	// EnvGPGPassphrase supplies the signing key passphrase when --gpg-passphrase is not given
	EnvGPGPassphrase = "ARCHCAT_GPG_PASSPHRASE"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var (
		configPath string
		flags      models.BuildConfig
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the archetype catalog",
		Long: `Walks the release (or snapshot) archetype repository, resolves every
archetype version listed in the "liferay-<version> <jsf>" parameters and
prints a summary. With --output the catalog is written to a file, optionally
compressed and signed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mergeFlags(cmd, config, &flags)

			// Validate configuration
			if err := validateConfig(config); err != nil {
				return err
			}

			logrus.Info("Starting catalog build...")
			logrus.Debugf("Configuration: release=%s snapshot=%s params=%v",
				config.ReleaseURL, config.SnapshotURL, config.Params)

			return runBuild(cmd.Context(), cmd.OutOrStdout(), config)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringToStringVarP(&flags.Params, "param", "P", nil, "Init parameter key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.Snapshot, "snapshot", false, "Use the snapshot repository")

	// Repository flags
	cmd.Flags().StringVar(&flags.ReleaseURL, "release-url", models.DefaultReleaseURL, "Release repository root")
	cmd.Flags().StringVar(&flags.SnapshotURL, "snapshot-url", models.DefaultSnapshotURL, "Snapshot repository root")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().StringVar(&flags.UserAgent, "user-agent", defaultUserAgent, "HTTP User-Agent header")
	cmd.Flags().IntVar(&flags.CacheSize, "cache-size", defaultCacheSize, "Number of directory listings to cache (0 disables)")

	// Traversal flags
	cmd.Flags().StringVar(&flags.TempDir, "temp-dir", "", "Directory for downloaded archives (defaults to the system temp dir)")
	cmd.Flags().StringVar(&flags.SuitePattern, "suites", "", "Only include suites matching this glob")
	cmd.Flags().BoolVar(&flags.VerifyChecksums, "verify-checksums", false, "Verify archives against their .sha1 files")

	// Output flags
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", "", "Write the catalog to this file")
	cmd.Flags().StringVar(&flags.Format, "format", export.FormatJSON, "Catalog format (json, yaml)")
	cmd.Flags().StringVar(&flags.Compression, "compress", utils.CompressionNone, "Catalog compression (none, gzip, zstd, xz)")
	cmd.Flags().StringVarP(&flags.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVarP(&flags.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	return cmd
}

// loadConfig reads a YAML configuration file, or returns defaults when path is empty
func loadConfig(path string) (*models.BuildConfig, error) {
	config := &models.BuildConfig{
		ReleaseURL:  models.DefaultReleaseURL,
		SnapshotURL: models.DefaultSnapshotURL,
		Timeout:     defaultTimeout,
		UserAgent:   defaultUserAgent,
		CacheSize:   defaultCacheSize,
		Format:      export.FormatJSON,
		Compression: utils.CompressionNone,
	}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.CatalogError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to read config: %w", err),
		}
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &models.CatalogError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to parse config %s: %w", path, err),
		}
	}

	return config, nil
}

// mergeFlags copies explicitly set flags over the loaded configuration
func mergeFlags(cmd *cobra.Command, config, flags *models.BuildConfig) {
	changed := cmd.Flags().Changed

	if changed("param") {
		if config.Params == nil {
			config.Params = make(map[string]string)
		}
		for k, v := range flags.Params {
			config.Params[k] = v
		}
	}
	if changed("snapshot") {
		config.Snapshot = flags.Snapshot
	}
	if changed("release-url") {
		config.ReleaseURL = flags.ReleaseURL
	}
	if changed("snapshot-url") {
		config.SnapshotURL = flags.SnapshotURL
	}
	if changed("timeout") {
		config.Timeout = flags.Timeout
	}
	if changed("user-agent") {
		config.UserAgent = flags.UserAgent
	}
	if changed("cache-size") {
		config.CacheSize = flags.CacheSize
	}
	if changed("temp-dir") {
		config.TempDir = flags.TempDir
	}
	if changed("suites") {
		config.SuitePattern = flags.SuitePattern
	}
	if changed("verify-checksums") {
		config.VerifyChecksums = flags.VerifyChecksums
	}
	if changed("output") {
		config.OutputPath = flags.OutputPath
	}
	if changed("format") {
		config.Format = flags.Format
	}
	if changed("compress") {
		config.Compression = flags.Compression
	}
	if changed("gpg-key") {
		config.GPGKeyPath = flags.GPGKeyPath
	}
	if changed("gpg-passphrase") {
		config.GPGPassphrase = flags.GPGPassphrase
	}
}

func validateConfig(config *models.BuildConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return &models.CatalogError{
			Type: models.ErrInvalidConfig,
			Err:  err,
		}
	}

	if config.Params == nil {
		config.Params = make(map[string]string)
	}

	// --snapshot wins over a "snapshot" init parameter
	if config.Snapshot {
		config.Params["snapshot"] = "true"
	}

	if config.GPGKeyPath != "" && config.OutputPath == "" {
		return &models.CatalogError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("gpg-key requires output"),
		}
	}

	if config.GPGPassphrase == "" {
		config.GPGPassphrase = os.Getenv(EnvGPGPassphrase)
	}

	return nil
}

func runBuild(ctx context.Context, out io.Writer, config *models.BuildConfig) error {
	// Step 1: Initialize signer before any network work
	var gpgSigner signer.Signer
	if config.GPGKeyPath != "" {
		s, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.CatalogError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		logrus.Infof("GPG signer initialized (key %s)", s.Fingerprint())
		gpgSigner = s
	}

	// Step 2: Wire the builder
	client := &http.Client{Timeout: config.Timeout}

	lister, err := listing.NewHTTPLister(client, config.UserAgent, config.CacheSize)
	if err != nil {
		return &models.CatalogError{Type: models.ErrInvalidConfig, Err: err}
	}

	builder, err := catalog.NewBuilder(lister, artifact.NewDownloader(client, config.UserAgent), catalog.Options{
		ReleaseURL:      config.ReleaseURL,
		SnapshotURL:     config.SnapshotURL,
		TempDir:         config.TempDir,
		SuitePattern:    config.SuitePattern,
		VerifyChecksums: config.VerifyChecksums,
	})
	if err != nil {
		return err
	}

	// Step 3: Build
	svc, err := catalog.NewService(ctx, builder, config.Params)
	if err != nil {
		return err
	}

	printSummary(out, svc)

	if failures := svc.Failures(); len(failures) > 0 {
		logrus.Warnf("%d branches were skipped", len(failures))
	}

	// Step 4: Export
	if config.OutputPath == "" {
		return nil
	}

	cat := svc.Catalog()
	result, err := export.Write(&cat, export.Options{
		Path:        config.OutputPath,
		Format:      config.Format,
		Compression: config.Compression,
		Signer:      gpgSigner,
	})
	if err != nil {
		return err
	}

	logrus.Info("Catalog build completed successfully!")
	logrus.Infof("Catalog: %s", result.CatalogPath)
	if result.SignaturePath != "" {
		logrus.Infof("Signature: %s", result.SignaturePath)
	}

	return nil
}

func printSummary(out io.Writer, svc *catalog.Service) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "LIFERAY\tJSF\tSUITE\tVERSION")
	for _, a := range svc.Archetypes() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.LiferayVersion, a.JSFVersion, a.Suite, a.Version)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n%d archetypes, %d suites, %d skipped\n",
		len(svc.Archetypes()), len(svc.Suites()), len(svc.Failures()))

	for _, f := range svc.Failures() {
		fmt.Fprintf(out, "  skipped %s: [%s] %s\n", f.URL, f.Type, f.Reason)
	}
}
