package models

// Archetype is one resolved archetype package of a suite
type Archetype struct {
	LiferayVersion string `json:"liferayVersion" yaml:"liferayVersion"`
	JSFVersion     string `json:"jsfVersion" yaml:"jsfVersion"`
	Suite          string `json:"suite" yaml:"suite"`
	Version        string `json:"version" yaml:"version"`

	// Dependency declarations copied from archetype-resources/pom.xml
	Dependencies string `json:"dependencies" yaml:"dependencies"`

	// Maven command line (HTML line breaks) that generates a project from the archetype
	GenerateCommand string `json:"generateCommand" yaml:"generateCommand"`

	// File information
	ArchiveURL string `json:"archiveUrl" yaml:"archiveUrl"`
	SHA1Sum    string `json:"sha1,omitempty" yaml:"sha1,omitempty"`
}

// Suite is a component library family found in the repository listing
type Suite struct {
	Name string `json:"name" yaml:"name"`

	// Title is empty for suites without a known display name
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// BranchFailure records a suite, version or file that was skipped during a build
type BranchFailure struct {
	Suite   string    `json:"suite,omitempty" yaml:"suite,omitempty"`
	Version string    `json:"version,omitempty" yaml:"version,omitempty"`
	URL     string    `json:"url" yaml:"url"`
	Type    ErrorType `json:"type" yaml:"type"`
	Reason  string    `json:"reason" yaml:"reason"`
}

// Catalog is the result of a single build
type Catalog struct {
	RunID           string          `json:"runId" yaml:"runId"`
	RepositoryURL   string          `json:"repositoryUrl" yaml:"repositoryUrl"`
	Snapshot        bool            `json:"snapshot" yaml:"snapshot"`
	LiferayVersions []string        `json:"liferayVersions" yaml:"liferayVersions"`
	JSFVersions     []string        `json:"jsfVersions" yaml:"jsfVersions"`
	Archetypes      []Archetype     `json:"archetypes" yaml:"archetypes"`
	Suites          []Suite         `json:"suites" yaml:"suites"`
	Failures        []BranchFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}
