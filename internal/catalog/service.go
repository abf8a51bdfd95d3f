package catalog

import (
	"context"

	"github.com/lfsite/archcat/internal/models"
)

// CatalogBuilder is implemented by Builder
type CatalogBuilder interface {
	Build(ctx context.Context, params map[string]string) (*models.Catalog, error)
}

// Service holds the catalog computed once at startup
type Service struct {
	catalog models.Catalog
}

// NewService builds the catalog for params.
//
// The returned Service is never nil: when the build fails it serves empty lists
// and the error is returned alongside it.
func NewService(ctx context.Context, builder CatalogBuilder, params map[string]string) (*Service, error) {
	s := &Service{}

	catalog, err := builder.Build(ctx, params)
	if err != nil {
		return s, err
	}

	s.catalog = *catalog
	return s, nil
}

// Archetypes returns the resolved archetypes in discovery order
func (s *Service) Archetypes() []models.Archetype {
	return append([]models.Archetype{}, s.catalog.Archetypes...)
}

// Suites returns every suite seen in the repository
func (s *Service) Suites() []models.Suite {
	return append([]models.Suite{}, s.catalog.Suites...)
}

// LiferayVersions returns the configured Liferay versions, highest first
func (s *Service) LiferayVersions() []string {
	return append([]string{}, s.catalog.LiferayVersions...)
}

// JSFVersions returns the configured JSF versions, highest first
func (s *Service) JSFVersions() []string {
	return append([]string{}, s.catalog.JSFVersions...)
}

// Failures returns the branches skipped while building
func (s *Service) Failures() []models.BranchFailure {
	return append([]models.BranchFailure{}, s.catalog.Failures...)
}

// Catalog returns a copy of the full catalog
func (s *Service) Catalog() models.Catalog {
	c := s.catalog
	c.Archetypes = s.Archetypes()
	c.Suites = s.Suites()
	c.LiferayVersions = s.LiferayVersions()
	c.JSFVersions = s.JSFVersions()
	c.Failures = s.Failures()
	return c
}
