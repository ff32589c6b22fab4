package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/gate"
	"github.com/nicheshunter/nicheshunter/ports"
)

// SavedService manages the user's saved niches. Every mutation re-checks
// the gate against the identity resolved for this request; nothing is
// trusted from earlier page loads.
type SavedService struct {
	catalog ports.CatalogStore
	saved   ports.SavedNicheStore
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewSavedService creates a new saved-niche service.
func NewSavedService(catalog ports.CatalogStore, saved ports.SavedNicheStore, m *metrics.Collector, logger zerolog.Logger) *SavedService {
	return &SavedService{catalog: catalog, saved: saved, metrics: m, logger: logger}
}

// Save adds a niche to the user's saved list. Saving twice is a no-op.
func (s *SavedService) Save(ctx context.Context, id entitlement.Identity, code string) error {
	if err := s.checkGate(id, gate.ActionSave); err != nil {
		return err
	}

	n, err := s.catalog.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.saved.Add(ctx, id.UserID, n.ID); err != nil {
		return err
	}

	s.logger.Debug().Str("user_id", id.UserID).Str("niche", code).Msg("niche saved")
	return nil
}

// Unsave removes a niche from the user's saved list. Removing a niche the
// user never saved is a quiet no-op.
func (s *SavedService) Unsave(ctx context.Context, id entitlement.Identity, code string) error {
	if err := s.checkGate(id, gate.ActionUnsave); err != nil {
		return err
	}

	n, err := s.catalog.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	removed, err := s.saved.Remove(ctx, id.UserID, n.ID)
	if err != nil {
		return err
	}
	if !removed {
		// The caller holds no such row. Removal is keyed by owner, so a
		// foreign row can never be touched; the attempt fails rather
		// than silently succeeding.
		s.denied(gate.ActionUnsave, "not_owner")
		return ErrUnauthenticated
	}
	s.logger.Debug().Str("user_id", id.UserID).Str("niche", code).Msg("niche unsaved")
	return nil
}

// ListSaved returns the user's saved niches as entitlement decisions,
// newest save first. Rows pointing at since-deleted niches are skipped.
func (s *SavedService) ListSaved(ctx context.Context, id entitlement.Identity) ([]entitlement.Decision, error) {
	if id.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	nicheIDs, err := s.saved.ListFor(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	decisions := make([]entitlement.Decision, 0, len(nicheIDs))
	for _, nid := range nicheIDs {
		n, err := s.catalog.Get(ctx, nid)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, entitlement.Resolve(id, n))
	}
	return decisions, nil
}

// IsSaved reports whether the user has saved the niche with this code.
func (s *SavedService) IsSaved(ctx context.Context, id entitlement.Identity, code string) (bool, error) {
	if id.IsAnonymous() {
		return false, nil
	}
	n, err := s.catalog.GetByCode(ctx, code)
	if errors.Is(err, ports.ErrNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return s.saved.IsSaved(ctx, id.UserID, n.ID)
}

func (s *SavedService) checkGate(id entitlement.Identity, action gate.Action) error {
	switch outcome := gate.Check(id, action); outcome {
	case gate.Allowed:
		return nil
	case gate.Unauthenticated:
		s.denied(action, "unauthenticated")
		return ErrUnauthenticated
	case gate.SubscriptionRequired:
		s.denied(action, "subscription_required")
		return ErrSubscriptionRequired
	default:
		s.denied(action, "unknown")
		return ErrUnauthenticated
	}
}

func (s *SavedService) denied(action gate.Action, reason string) {
	if s.metrics != nil {
		s.metrics.GateDenials.WithLabelValues(string(action), reason).Inc()
	}
}
