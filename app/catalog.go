package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/revenue"
	"github.com/nicheshunter/nicheshunter/ports"
)

// CatalogService serves niche listings and detail views with server-side
// entitlement applied. Narrative analysis never leaves this service for a
// viewer who is not entitled to it.
type CatalogService struct {
	catalog ports.CatalogStore
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog ports.CatalogStore, m *metrics.Collector, logger zerolog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, metrics: m, logger: logger}
}

// ListFilter narrows a catalog listing. The zero value selects everything.
type ListFilter struct {
	Category string
	Revenue  *revenue.Bracket
	FreeOnly bool
}

func (f ListFilter) apply(niches []catalog.Niche) []catalog.Niche {
	niches = catalog.FilterByCategory(niches, f.Category)
	if f.FreeOnly {
		niches = catalog.FilterFreeTier(niches)
	}
	if f.Revenue != nil {
		niches = catalog.FilterByRevenue(niches, *f.Revenue)
	}
	return niches
}

// List returns the matching niches as entitlement decisions for the viewer.
// Filtering happens before entitlement, so a filtered listing redacts
// exactly like the full one.
func (s *CatalogService) List(ctx context.Context, id entitlement.Identity, filter ListFilter) ([]entitlement.Decision, error) {
	niches, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	decisions := entitlement.ResolveAll(id, filter.apply(niches))
	s.countDecisions(decisions)
	return decisions, nil
}

// GetByCode returns the entitlement decision for one niche. An unknown code
// is ErrNotFound; a known but locked code is a redacted decision, never a 404.
func (s *CatalogService) GetByCode(ctx context.Context, id entitlement.Identity, code string) (entitlement.Decision, error) {
	n, err := s.catalog.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return entitlement.Decision{}, ErrNotFound
	}
	if err != nil {
		return entitlement.Decision{}, err
	}

	d := entitlement.Resolve(id, n)
	s.countDecisions([]entitlement.Decision{d})
	return d, nil
}

func (s *CatalogService) countDecisions(ds []entitlement.Decision) {
	if s.metrics == nil {
		return
	}
	for _, d := range ds {
		if d.Unlocked {
			s.metrics.EntitlementDecisions.WithLabelValues("unlocked").Inc()
		} else {
			s.metrics.EntitlementDecisions.WithLabelValues("redacted").Inc()
		}
	}
}
