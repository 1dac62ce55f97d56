// Package model loads the fitted scaler and scoring model artifacts.
//
// Both artifacts are exported offline by the training pipeline as JSON
// parameter files: a standard scaler (per-feature mean and scale) and a
// linear point predictor (coefficients + intercept). They are opaque to the
// core — loaded once at process start, injected by reference, never trained
// or mutated here.
//
// Each artifact embeds the feature order it was trained against; loading
// fails if it disagrees with the canonical order, because a silently
// reordered vector would produce plausible-looking garbage scores.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Standard Scaler ────────────────────────────────────────────────────────

// StandardScaler applies the training-time z-normalization:
// z[i] = (x[i] − mean[i]) / scale[i].
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform normalizes a vector. The input is never mutated. A zero scale
// entry (zero-variance training column) passes the centered value through
// unscaled, matching the fitting library's convention.
func (s *StandardScaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d",
			domain.ErrArtifactCorrupted, len(s.Mean), len(vec))
	}
	out := make([]float64, len(vec))
	for i, x := range vec {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}

// ─── Linear Model ───────────────────────────────────────────────────────────

// LinearModel is the fitted point predictor:
// y = intercept + Σ coefficients[i]·x[i].
type LinearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Predict returns the raw (unclamped, unrounded) score prediction.
func (m *LinearModel) Predict(vec []float64) (float64, error) {
	if len(vec) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d",
			domain.ErrArtifactCorrupted, len(m.Coefficients), len(vec))
	}
	y := m.Intercept
	for i, x := range vec {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

// ─── Artifact Loading ───────────────────────────────────────────────────────

type scalerArtifact struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureOrder []string  `json:"feature_order"`
}

type modelArtifact struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	FeatureOrder []string  `json:"feature_order"`
}

// LoadScaler reads a fitted standard-scaler artifact from path.
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrScalerUnavailable, path, err)
	}

	var art scalerArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrArtifactCorrupted, path, err)
	}
	if len(art.Mean) != domain.FeatureCount || len(art.Scale) != domain.FeatureCount {
		return nil, fmt.Errorf("%w: %s has %d/%d parameters, want %d",
			domain.ErrArtifactCorrupted, path, len(art.Mean), len(art.Scale), domain.FeatureCount)
	}
	if err := checkFeatureOrder(path, art.FeatureOrder); err != nil {
		return nil, err
	}
	return &StandardScaler{Mean: art.Mean, Scale: art.Scale}, nil
}

// LoadModel reads a fitted linear-model artifact from path.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrModelUnavailable, path, err)
	}

	var art modelArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrArtifactCorrupted, path, err)
	}
	if len(art.Coefficients) != domain.FeatureCount {
		return nil, fmt.Errorf("%w: %s has %d coefficients, want %d",
			domain.ErrArtifactCorrupted, path, len(art.Coefficients), domain.FeatureCount)
	}
	if err := checkFeatureOrder(path, art.FeatureOrder); err != nil {
		return nil, err
	}
	return &LinearModel{Coefficients: art.Coefficients, Intercept: art.Intercept}, nil
}

// checkFeatureOrder verifies the artifact was trained against the canonical
// feature order. Older artifacts without an embedded order are accepted.
func checkFeatureOrder(path string, order []string) error {
	if len(order) == 0 {
		return nil
	}
	if len(order) != len(domain.FeatureOrder) {
		return fmt.Errorf("%w: %s trained on %d features, want %d",
			domain.ErrArtifactCorrupted, path, len(order), len(domain.FeatureOrder))
	}
	for i, name := range domain.FeatureOrder {
		if order[i] != name {
			return fmt.Errorf("%w: %s feature %d is %q, want %q",
				domain.ErrArtifactCorrupted, path, i, order[i], name)
		}
	}
	return nil
}
