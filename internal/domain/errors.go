package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
//
// Data-quality problems in raw rows are NOT errors: the extractor absorbs
// them with safe defaults. Only configuration failures (missing artifacts)
// and storage failures surface to the caller.

var (
	// Artifact errors — fatal configuration failures, never scored around.
	ErrModelUnavailable  = errors.New("scoring model not loaded")
	ErrScalerUnavailable = errors.New("feature scaler not loaded")
	ErrArtifactCorrupted = errors.New("model artifact failed integrity check")

	// Projection errors
	ErrNegativeRemitAmount = errors.New("monthly remittance amount must be non-negative")
)
