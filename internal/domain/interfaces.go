package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Scaler is a fitted, read-only input transform (trained offline together
// with the model). Transform never mutates its input.
type Scaler interface {
	Transform(vec []float64) ([]float64, error)
}

// Model is a fitted, read-only point predictor. The core never trains or
// mutates it.
type Model interface {
	Predict(vec []float64) (float64, error)
}

// RecordRepository fetches the four raw record collections for a user.
type RecordRepository interface {
	FetchRecords(ctx context.Context, userID int64) (RecordSet, error)
}

// ScoreStore persists derived scores.
//
// SaveLatestScore is an idempotent upsert per user; AppendScoreHistory is
// insert-or-update keyed by (user, period) so re-scoring within the same
// period overwrites that period's row. Concurrent writers get last-write-wins
// semantics from storage.
type ScoreStore interface {
	SaveLatestScore(ctx context.Context, userID int64, score int) error
	AppendScoreHistory(ctx context.Context, userID int64, score int) error
	LatestScore(ctx context.Context, userID int64) (int, error)
	ScoreHistory(ctx context.Context, userID int64) ([]ScoreHistoryEntry, error)
}
