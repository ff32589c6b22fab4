package app

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/validate"
	"github.com/nicheshunter/nicheshunter/ports"
)

// ValidationService runs the step-gated idea validator. Free preview steps
// run for everyone; the rest only for entitled viewers. The locked step
// names are returned so clients can render the upgrade path.
type ValidationService struct {
	validator ports.IdeaValidator
	metrics   *metrics.Collector
	logger    zerolog.Logger

	mu   sync.RWMutex
	gate validate.Gate
}

// NewValidationService creates a new validation service.
func NewValidationService(validator ports.IdeaValidator, g validate.Gate, m *metrics.Collector, logger zerolog.Logger) *ValidationService {
	return &ValidationService{validator: validator, gate: g, metrics: m, logger: logger}
}

// SetGate swaps the step gating policy. Called when configuration reloads.
func (s *ValidationService) SetGate(g validate.Gate) {
	s.mu.Lock()
	s.gate = g
	s.mu.Unlock()
}

// ValidatorFlow describes the step sequence and which steps run free, so
// clients can render the flow before submitting an idea.
type ValidatorFlow struct {
	Steps       []string `json:"steps"`
	FreePreview []string `json:"free_preview"`
}

// Flow returns the current validator flow.
func (s *ValidationService) Flow() ValidatorFlow {
	s.mu.RLock()
	gate := s.gate
	s.mu.RUnlock()

	return ValidatorFlow{Steps: validate.Steps, FreePreview: gate.FreePreview()}
}

// ValidationOutcome is the service-level validation result.
type ValidationOutcome struct {
	Idea        string              `json:"idea"`
	Verdicts    []ports.StepVerdict `json:"verdicts"`
	Overall     int                 `json:"overall,omitempty"`
	LockedSteps []string            `json:"locked_steps,omitempty"`
	Partial     bool                `json:"partial"`
}

// Run validates an idea for the viewer. The steps sent to the external
// service are exactly those the gate allows, so locked analysis is never
// generated, let alone redacted.
func (s *ValidationService) Run(ctx context.Context, id entitlement.Identity, idea string) (ValidationOutcome, error) {
	s.mu.RLock()
	gate := s.gate
	s.mu.RUnlock()

	var allowed, locked []string
	for i, step := range validate.Steps {
		switch gate.CheckStep(id, i) {
		case validate.Allowed:
			allowed = append(allowed, step)
		case validate.SubscriptionRequired:
			locked = append(locked, step)
		}
	}

	if len(allowed) == 0 {
		s.count("gated")
		return ValidationOutcome{}, ErrSubscriptionRequired
	}

	result, err := s.validator.Validate(ctx, idea, allowed)
	if err != nil {
		s.count("error")
		s.logger.Error().Err(err).Msg("idea validation failed")
		return ValidationOutcome{}, ErrValidatorUnavailable
	}

	out := ValidationOutcome{
		Idea:        strings.TrimSpace(idea),
		Verdicts:    result.Verdicts,
		LockedSteps: locked,
		Partial:     len(locked) > 0,
	}
	// A partial run has no meaningful overall score.
	if len(locked) == 0 {
		out.Overall = result.Overall
	}

	s.count("ok")
	return out, nil
}

func (s *ValidationService) count(result string) {
	if s.metrics != nil {
		s.metrics.ValidationRuns.WithLabelValues(result).Inc()
	}
}
