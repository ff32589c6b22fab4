package app

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/nicheshunter/nicheshunter/domain/revenue"
)

// EstimatorService wraps the deterministic revenue estimator with optional
// operator-configured adjustment expressions. The expressions are compiled
// at construction (and on configuration reload) and evaluated per estimate
// with the inputs and the raw band in scope, e.g.
//
//	category == "games" ? low * 0.8 : low
type EstimatorService struct {
	logger zerolog.Logger

	mu         sync.RWMutex
	adjustLow  *vm.Program
	adjustHigh *vm.Program
}

// NewEstimatorService creates a new estimator service. Empty expressions
// disable adjustment for that bound.
func NewEstimatorService(adjustLow, adjustHigh string, logger zerolog.Logger) (*EstimatorService, error) {
	s := &EstimatorService{logger: logger}
	if err := s.SetAdjustments(adjustLow, adjustHigh); err != nil {
		return nil, err
	}
	return s, nil
}

// SetAdjustments recompiles the adjustment expressions. On compile error
// the previous programs stay in effect.
func (s *EstimatorService) SetAdjustments(adjustLow, adjustHigh string) error {
	low, err := compileAdjustment(adjustLow, "estimator_adjust_low")
	if err != nil {
		return err
	}
	high, err := compileAdjustment(adjustHigh, "estimator_adjust_high")
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.adjustLow = low
	s.adjustHigh = high
	s.mu.Unlock()
	return nil
}

func compileAdjustment(src, name string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	p, err := expr.Compile(src, expr.Env(estimateEnv{}))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return p, nil
}

// estimateEnv is the expression evaluation scope.
type estimateEnv struct {
	Category     string  `expr:"category"`
	Competition  string  `expr:"competition"`
	Monetization string  `expr:"monetization"`
	MarketSize   string  `expr:"market_size"`
	Price        float64 `expr:"price"`
	Downloads    int64   `expr:"downloads"`
	Low          int64   `expr:"low"`
	High         int64   `expr:"high"`
}

// Estimate runs the rule-table estimator and applies any configured
// adjustments. Adjustment failures are logged and ignored; the raw band
// always stands as a fallback.
func (s *EstimatorService) Estimate(in revenue.EstimateInput) revenue.Estimate {
	est := revenue.Calculate(in)

	s.mu.RLock()
	adjustLow, adjustHigh := s.adjustLow, s.adjustHigh
	s.mu.RUnlock()

	env := estimateEnv{
		Category:     in.Category,
		Competition:  in.Competition,
		Monetization: in.Monetization,
		MarketSize:   in.MarketSize,
		Price:        in.PriceUSD,
		Downloads:    in.Downloads,
		Low:          est.MonthlyLow,
		High:         est.MonthlyHigh,
	}

	if adjustLow != nil {
		if v, ok := s.eval(adjustLow, env, "low"); ok {
			est.MonthlyLow = v
		}
	}
	if adjustHigh != nil {
		if v, ok := s.eval(adjustHigh, env, "high"); ok {
			est.MonthlyHigh = v
		}
	}

	// Keep the band ordered even if an adjustment crossed the bounds.
	if est.MonthlyLow > est.MonthlyHigh {
		est.MonthlyLow, est.MonthlyHigh = est.MonthlyHigh, est.MonthlyLow
	}
	est.Bracket = revenue.Bracket{Low: est.MonthlyLow, High: est.MonthlyHigh}
	return est
}

func (s *EstimatorService) eval(p *vm.Program, env estimateEnv, bound string) (int64, bool) {
	out, err := expr.Run(p, env)
	if err != nil {
		s.logger.Warn().Err(err).Str("bound", bound).Msg("estimator adjustment failed")
		return 0, false
	}
	switch v := out.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		s.logger.Warn().Str("bound", bound).Msgf("estimator adjustment returned %T, want number", out)
		return 0, false
	}
}
