package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/lfsite/archcat/internal/artifact"
	"github.com/lfsite/archcat/internal/descriptor"
	"github.com/lfsite/archcat/internal/listing"
	"github.com/lfsite/archcat/internal/models"
	"github.com/lfsite/archcat/internal/selector"
	"github.com/lfsite/archcat/internal/utils"
	"github.com/sirupsen/logrus"
)

// Fetcher downloads and verifies archetype archives
type Fetcher interface {
	Download(ctx context.Context, url, destDir, fileName string) (string, error)
	VerifySHA1(ctx context.Context, url, path string) (string, error)
}

// Options controls where and how a Builder walks the repository
type Options struct {
	ReleaseURL      string
	SnapshotURL     string
	TempDir         string
	SuitePattern    string
	VerifyChecksums bool
}

// Builder produces archetype catalogs from a remote Maven repository
type Builder struct {
	lister  listing.Lister
	fetcher Fetcher
	opts    Options
	suites  glob.Glob
}

// NewBuilder creates a catalog builder
func NewBuilder(lister listing.Lister, fetcher Fetcher, opts Options) (*Builder, error) {
	if opts.ReleaseURL == "" {
		opts.ReleaseURL = models.DefaultReleaseURL
	}
	if opts.SnapshotURL == "" {
		opts.SnapshotURL = models.DefaultSnapshotURL
	}

	b := &Builder{
		lister:  lister,
		fetcher: fetcher,
		opts:    opts,
	}

	if opts.SuitePattern != "" {
		g, err := glob.Compile(opts.SuitePattern)
		if err != nil {
			return nil, &models.CatalogError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("invalid suite pattern %q: %w", opts.SuitePattern, err),
			}
		}
		b.suites = g
	}

	return b, nil
}

// Build walks the repository and returns the catalog for params.
//
// Only a failure to read the repository root (or cancellation) is returned as an
// error; failures below it are logged, recorded in Catalog.Failures and skipped.
func (b *Builder) Build(ctx context.Context, params map[string]string) (*models.Catalog, error) {
	sel := selector.Parse(params)

	baseURL := b.opts.ReleaseURL
	if sel.Snapshot() {
		baseURL = b.opts.SnapshotURL
	}
	baseURL = listing.DirURL(baseURL)

	runID := uuid.NewString()
	log := logrus.WithField("run", runID)
	log.Debugf("Using repository %s (%d selected versions)", baseURL, sel.Len())
	log.Debugf("Selected versions: %v", sel.Keys())

	suites, err := discoverSuites(ctx, log, b.lister, baseURL)
	if err != nil {
		return nil, &models.CatalogError{
			Type: models.ErrListing,
			URL:  baseURL,
			Err:  err,
		}
	}

	w := &walk{
		builder:   b,
		selectors: sel,
		catalog: &models.Catalog{
			RunID:           runID,
			RepositoryURL:   baseURL,
			Snapshot:        sel.Snapshot(),
			LiferayVersions: sel.LiferayVersions(),
			JSFVersions:     sel.JSFVersions(),
			Archetypes:      []models.Archetype{},
		},
		seen: make(map[string]bool),
		log:  log,
	}

	for _, suite := range suites {
		if b.suites != nil && !b.suites.Match(suite.Name) {
			log.Debugf("Suite %s excluded by pattern %q", suite.Name, b.opts.SuitePattern)
			continue
		}

		w.suite(ctx, suite)

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build cancelled: %w", err)
		}
	}

	w.catalog.Suites = w.suiteRecords()

	log.Infof("Built catalog: %d archetypes, %d suites, %d failures",
		len(w.catalog.Archetypes), len(w.catalog.Suites), len(w.catalog.Failures))

	return w.catalog, nil
}

// walk holds the state of one Build call
type walk struct {
	builder    *Builder
	selectors  *selector.Selectors
	catalog    *models.Catalog
	suiteOrder []string
	seen       map[string]bool
	log        *logrus.Entry
}

func (w *walk) suite(ctx context.Context, suite suiteDir) {
	if !w.seen[suite.Name] {
		w.seen[suite.Name] = true
		w.suiteOrder = append(w.suiteOrder, suite.Name)
	}

	log := w.log.WithField("suite", suite.Name)

	versions, err := discoverVersions(ctx, w.builder.lister, suite)
	if err != nil {
		w.fail(log, suite.Name, "", &models.CatalogError{Type: models.ErrListing, URL: suite.URL, Err: err})
		return
	}

	for _, version := range versions {
		sel, ok := w.selectors.Lookup(version.Version)
		if !ok {
			continue
		}

		if ctx.Err() != nil {
			return
		}

		vlog := log.WithField("version", version.Version)
		vlog.Debugf("Resolving archetype (liferay %s, jsf %s)", sel.LiferayVersion, sel.JSFVersion)

		archetype, err := w.builder.resolve(ctx, vlog, suite, version, sel)
		if err != nil {
			w.fail(vlog, suite.Name, version.Version, err)
			continue
		}

		w.catalog.Archetypes = append(w.catalog.Archetypes, *archetype)
	}
}

func (w *walk) fail(log *logrus.Entry, suite, version string, err error) {
	failure := models.BranchFailure{
		Suite:   suite,
		Version: version,
		Reason:  err.Error(),
	}

	var catErr *models.CatalogError
	if errors.As(err, &catErr) {
		failure.Type = catErr.Type
		failure.URL = catErr.URL
		failure.Reason = catErr.Err.Error()
	}

	log.Errorf("Skipping: %v", err)
	w.catalog.Failures = append(w.catalog.Failures, failure)
}

func (w *walk) suiteRecords() []models.Suite {
	suites := make([]models.Suite, 0, len(w.suiteOrder))
	for _, name := range w.suiteOrder {
		title, _ := SuiteTitle(name)
		suites = append(suites, models.Suite{Name: name, Title: title})
	}
	return suites
}

// resolve downloads one archetype version and reads its descriptor
func (b *Builder) resolve(ctx context.Context, log *logrus.Entry, suite suiteDir, version versionDir, sel selector.Selector) (*models.Archetype, error) {
	archive, err := findArchive(ctx, b.lister, version)
	if err != nil {
		errType := models.ErrListing
		if errors.Is(err, errNoArchive) {
			errType = models.ErrArchive
		}
		return nil, &models.CatalogError{Type: errType, URL: version.URL, Err: err}
	}

	dir, cleanup, err := utils.ScopedTempDir(b.opts.TempDir, "archcat-*")
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrFileOp, Err: fmt.Errorf("failed to create work directory: %w", err)}
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Errorf("Failed to clean up: %v", err)
		}
	}()

	jarPath, err := b.fetcher.Download(ctx, archive.URL, dir, archive.Name)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrDownload, URL: archive.URL, Err: err}
	}

	var sha1 string
	if b.opts.VerifyChecksums {
		sha1, err = b.fetcher.VerifySHA1(ctx, archive.URL, jarPath)
		switch {
		case errors.Is(err, artifact.ErrNoChecksum):
			log.Debugf("No checksum published for %s", archive.URL)
		case err != nil:
			return nil, &models.CatalogError{Type: models.ErrChecksum, URL: archive.URL, Err: err}
		}
	}

	pomPath, err := artifact.ExtractDescriptor(jarPath, dir)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrArchive, URL: archive.URL, Err: err}
	}

	result, err := scanDescriptor(pomPath)
	if err != nil {
		return nil, &models.CatalogError{Type: models.ErrDescriptor, URL: archive.URL, Err: err}
	}

	log.Debugf("Resolved %s", archive.Name)

	return &models.Archetype{
		LiferayVersion:  sel.LiferayVersion,
		JSFVersion:      sel.JSFVersion,
		Suite:           suite.Name,
		Version:         version.Version,
		Dependencies:    result.Dependencies,
		GenerateCommand: GenerateCommand(suite.Name, version.Version),
		ArchiveURL:      archive.URL,
		SHA1Sum:         sha1,
	}, nil
}

func scanDescriptor(path string) (*descriptor.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return descriptor.Scan(f)
}
