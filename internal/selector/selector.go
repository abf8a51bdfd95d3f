package selector

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	snapshotKey    = "snapshot"
	snapshotSuffix = "-SNAPSHOT"
	liferayPrefix  = "liferay-"
)

var selectorKeyRe = regexp.MustCompile(`^liferay-\d+.+`)

// Selector maps a configured (Liferay, JSF) pair to the archetype version that serves it
type Selector struct {
	LiferayVersion string
	JSFVersion     string
	ExtVersion     string
}

// Selectors is the immutable index built from init parameters
type Selectors struct {
	snapshot        bool
	keys            map[string]string
	byExt           map[string]Selector
	liferayVersions []string
	jsfVersions     []string
}

// Parse builds the selector index from init parameters.
// Unrecognized keys are ignored.
func Parse(params map[string]string) *Selectors {
	s := &Selectors{
		snapshot: params[snapshotKey] == "true",
		keys:     make(map[string]string),
		byExt:    make(map[string]Selector),
	}

	names := make([]string, 0, len(params))
	for key := range params {
		names = append(names, key)
	}
	sort.Strings(names)

	liferays := make(map[string]bool)
	jsfs := make(map[string]bool)

	for _, key := range names {
		if key == snapshotKey {
			continue
		}

		if !selectorKeyRe.MatchString(key) {
			logrus.Debugf("Ignoring init parameter %q", key)
			continue
		}

		versions := strings.Split(key, " ")
		if len(versions) < 2 || versions[1] == "" {
			logrus.Warnf("Ignoring selector %q: expected \"liferay-<version> <jsf version>\"", key)
			continue
		}

		liferayVersion := strings.TrimPrefix(versions[0], liferayPrefix)
		jsfVersion := versions[1]
		extVersion := params[key]
		if s.snapshot {
			extVersion += snapshotSuffix
		}

		s.keys[liferayVersion+" "+jsfVersion] = extVersion
		s.byExt[extVersion] = Selector{
			LiferayVersion: liferayVersion,
			JSFVersion:     jsfVersion,
			ExtVersion:     extVersion,
		}
		liferays[liferayVersion] = true
		jsfs[jsfVersion] = true
	}

	s.liferayVersions = sortedDesc(liferays)
	s.jsfVersions = sortedDesc(jsfs)

	return s
}

// Snapshot reports whether the snapshot repository should be walked
func (s *Selectors) Snapshot() bool {
	return s.snapshot
}

// Lookup returns the selector configured for an archetype version
func (s *Selectors) Lookup(extVersion string) (Selector, bool) {
	sel, ok := s.byExt[extVersion]
	return sel, ok
}

// Len returns the number of distinct archetype versions selected
func (s *Selectors) Len() int {
	return len(s.byExt)
}

// Keys returns a copy of the "<liferayVersion> <jsfVersion>" to archetype version mapping
func (s *Selectors) Keys() map[string]string {
	out := make(map[string]string, len(s.keys))
	for k, v := range s.keys {
		out[k] = v
	}
	return out
}

// LiferayVersions returns the distinct Liferay versions, highest first
func (s *Selectors) LiferayVersions() []string {
	return append([]string(nil), s.liferayVersions...)
}

// JSFVersions returns the distinct JSF versions, highest first
func (s *Selectors) JSFVersions() []string {
	return append([]string(nil), s.jsfVersions...)
}

func sortedDesc(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
