package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/lfsite/archcat/internal/listing"
	"github.com/sirupsen/logrus"
)

// GroupID is the Maven group all archetypes are published under
const GroupID = "com.liferay.faces.archetype"

const portletSuffix = ".portlet"

// archiveRe matches the archive link of a version directory
var archiveRe = regexp.MustCompile(`^..*.jar$`)

// errNoArchive is returned by findArchive when a version directory lists no jar
var errNoArchive = errors.New("unable to determine archive url")

type suiteDir struct {
	Name string
	URL  string
}

type versionDir struct {
	Version string
	URL     string
}

type archiveRef struct {
	Name string
	URL  string
}

// discoverSuites reads the repository root and returns its suite directories,
// one per suite name in first-seen order
func discoverSuites(ctx context.Context, log *logrus.Entry, lister listing.Lister, baseURL string) ([]suiteDir, error) {
	entries, err := lister.List(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	var suites []suiteDir
	seen := make(map[string]bool)
	for _, entry := range entries {
		if !strings.Contains(entry.Href, GroupID) {
			continue
		}

		name, ok := suiteName(entry, baseURL)
		if !ok {
			log.Debugf("Skipping %s: not a suite directory", entry.Href)
			continue
		}

		// autoindex pages may link a directory more than once
		if seen[name] {
			continue
		}
		seen[name] = true

		suites = append(suites, suiteDir{
			Name: name,
			URL:  listing.DirURL(entry.URL),
		})
	}

	return suites, nil
}

// suiteName turns "com.liferay.faces.archetype.alloy.portlet/" into "alloy"
func suiteName(entry listing.Entry, baseURL string) (string, bool) {
	rel := listing.RelativeName(entry, baseURL)

	prefix := GroupID + "."
	idx := strings.Index(rel, prefix)
	if idx < 0 {
		return "", false
	}

	name := strings.ReplaceAll(rel[idx+len(prefix):], portletSuffix, "")
	return name, name != ""
}

// discoverVersions reads a suite directory and returns its version directories
func discoverVersions(ctx context.Context, lister listing.Lister, suite suiteDir) ([]versionDir, error) {
	entries, err := lister.List(ctx, suite.URL)
	if err != nil {
		return nil, err
	}

	versions := make([]versionDir, 0, len(entries))
	for _, entry := range entries {
		version := listing.RelativeName(entry, suite.URL)
		if version == "" {
			continue
		}

		versions = append(versions, versionDir{
			Version: version,
			URL:     listing.DirURL(entry.URL),
		})
	}

	return versions, nil
}

// findArchive reads a version directory and returns its jar. The last matching link wins.
func findArchive(ctx context.Context, lister listing.Lister, version versionDir) (archiveRef, error) {
	entries, err := lister.List(ctx, version.URL)
	if err != nil {
		return archiveRef{}, err
	}

	var found archiveRef
	for _, entry := range entries {
		if !archiveRe.MatchString(entry.Href) {
			continue
		}

		found = archiveRef{
			Name: listing.RelativeName(entry, version.URL),
			URL:  entry.URL,
		}
	}

	if found.URL == "" {
		return archiveRef{}, errNoArchive
	}

	return found, nil
}
