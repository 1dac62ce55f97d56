// Package scoring turns a feature mapping into a bounded credit score and
// projects how the score evolves under a recurring remittance habit.
//
// The Calculator owns the model contract: strict canonical feature order,
// fitted scaler transform, point prediction, rounding, and clamping. The
// Projector builds hypothetical future feature mappings and re-scores them
// with floor and cap invariants. The Service sequences repository fetches,
// extraction, scoring, and persistence — it owns no algorithmic logic.
package scoring

import (
	"fmt"
	"math"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Score Bounds ───────────────────────────────────────────────────────────

// Config bounds the score range. The bounds are part of the product contract
// with the trained model, not tunables — they change only alongside a
// retrained artifact pair.
type Config struct {
	MinScore int
	MaxScore int
}

// DefaultConfig returns the production score bounds.
func DefaultConfig() Config {
	return Config{
		MinScore: 550,
		MaxScore: 920,
	}
}

// Calculator computes the final credit score from a feature mapping.
// The scaler and model are fitted offline and injected once at startup;
// the calculator only reads them.
type Calculator struct {
	scaler domain.Scaler
	model  domain.Model
	cfg    Config
}

// NewCalculator creates a calculator around a fitted scaler+model pair.
func NewCalculator(scaler domain.Scaler, model domain.Model, cfg Config) *Calculator {
	return &Calculator{scaler: scaler, model: model, cfg: cfg}
}

// Score builds the input vector in canonical order, scales it, runs the
// point prediction, rounds half-to-even (the artifact's training-time
// convention), and clamps to [MinScore, MaxScore].
//
// A missing scaler or model is a configuration failure, never silently
// scored as zero.
func (c *Calculator) Score(f domain.FeatureMapping) (int, error) {
	if c.scaler == nil {
		return 0, domain.ErrScalerUnavailable
	}
	if c.model == nil {
		return 0, domain.ErrModelUnavailable
	}

	scaled, err := c.scaler.Transform(f.Vector())
	if err != nil {
		return 0, fmt.Errorf("scale features: %w", err)
	}

	raw, err := c.model.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("predict score: %w", err)
	}

	score := int(math.RoundToEven(raw))
	if score < c.cfg.MinScore {
		score = c.cfg.MinScore
	}
	if score > c.cfg.MaxScore {
		score = c.cfg.MaxScore
	}
	return score, nil
}

// Bounds exposes the configured clamp range.
func (c *Calculator) Bounds() (min, max int) {
	return c.cfg.MinScore, c.cfg.MaxScore
}
