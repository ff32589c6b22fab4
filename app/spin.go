package app

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/spin"
	"github.com/nicheshunter/nicheshunter/ports"
)

// SpinService powers the niche roulette. The spin count is client-reported
// and the limit is advisory: it only gates the spin action itself and the
// picks draw exclusively from free-tier niches, so a tampered count can
// never expose locked analysis.
type SpinService struct {
	catalog ports.CatalogStore
	metrics *metrics.Collector
	logger  zerolog.Logger
	pick    func(n int) int

	mu      sync.RWMutex
	limiter spin.Limiter
}

// NewSpinService creates a new roulette service.
func NewSpinService(catalog ports.CatalogStore, limiter spin.Limiter, m *metrics.Collector, logger zerolog.Logger) *SpinService {
	return &SpinService{
		catalog: catalog,
		limiter: limiter,
		metrics: m,
		logger:  logger,
		pick:    rand.Intn,
	}
}

// SpinResult is one roulette outcome.
type SpinResult struct {
	Limited   bool
	Remaining int
	Decision  entitlement.Decision
}

// SetLimiter swaps the spin policy. Called when configuration reloads.
func (s *SpinService) SetLimiter(l spin.Limiter) {
	s.mu.Lock()
	s.limiter = l
	s.mu.Unlock()
}

// Spin draws a random free-tier niche. count is the client-persisted number
// of spins already taken; subscribers are never limited.
func (s *SpinService) Spin(ctx context.Context, id entitlement.Identity, count int) (SpinResult, error) {
	s.mu.RLock()
	limiter := s.limiter
	s.mu.RUnlock()

	if limiter.ReachedLimit(id.Status, count) {
		s.count("limited")
		return SpinResult{Limited: true, Remaining: 0}, nil
	}

	niches, err := s.catalog.ListFreeTier(ctx)
	if err != nil {
		return SpinResult{}, err
	}
	if len(niches) == 0 {
		return SpinResult{}, ErrNotFound
	}

	n := niches[s.pick(len(niches))]
	s.count("ok")

	return SpinResult{
		Remaining: limiter.Remaining(count + 1),
		Decision:  entitlement.Resolve(id, n),
	}, nil
}

func (s *SpinService) count(result string) {
	if s.metrics != nil {
		s.metrics.SpinRequests.WithLabelValues(result).Inc()
	}
}
