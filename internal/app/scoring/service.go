package scoring

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/scorewise/scorewise/internal/app/features"
	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Scoring Orchestrator ───────────────────────────────────────────────────
// Thin sequencer between the pure core and its collaborators: fetch raw
// records, extract features, score or project, persist. No algorithmic
// logic lives here.

// Service coordinates one user's scoring pipeline.
type Service struct {
	records   domain.RecordRepository
	store     domain.ScoreStore
	extractor *features.Extractor
	calc      *Calculator
	projector *Projector
}

// NewService wires the orchestrator.
func NewService(records domain.RecordRepository, store domain.ScoreStore, extractor *features.Extractor, calc *Calculator) *Service {
	return &Service{
		records:   records,
		store:     store,
		extractor: extractor,
		calc:      calc,
		projector: NewProjector(calc),
	}
}

// ScoreUser computes and persists a user's current credit score.
//
// A user with no records is a valid outcome: extraction yields the
// all-default mapping and the score lands near the bottom of the clamp
// range. A missing model artifact aborts the request instead.
func (s *Service) ScoreUser(ctx context.Context, userID int64) (int, error) {
	rs, err := s.records.FetchRecords(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("fetch records for user %d: %w", userID, err)
	}

	start := time.Now()
	f := s.extractor.Extract(rs)
	extractDuration.Observe(time.Since(start).Seconds())

	score, err := s.calc.Score(f)
	if err != nil {
		scoringErrors.Inc()
		return 0, err
	}

	if err := s.store.SaveLatestScore(ctx, userID, score); err != nil {
		return 0, fmt.Errorf("save latest score for user %d: %w", userID, err)
	}
	if err := s.store.AppendScoreHistory(ctx, userID, score); err != nil {
		return 0, fmt.Errorf("append score history for user %d: %w", userID, err)
	}

	scoringTotal.Inc()
	scoreDistribution.Observe(float64(score))
	log.Printf("scored user %d: %d", userID, score)
	return score, nil
}

// PredictGrowth computes the current score plus the 6/12/18-month growth
// scenarios for a hypothetical monthly remittance. Nothing is persisted —
// projections are what-if answers, not facts.
func (s *Service) PredictGrowth(ctx context.Context, userID int64, monthlyRemitAmount float64) (Projection, error) {
	rs, err := s.records.FetchRecords(ctx, userID)
	if err != nil {
		return Projection{}, fmt.Errorf("fetch records for user %d: %w", userID, err)
	}

	f := s.extractor.Extract(rs)
	proj, err := s.projector.Project(f, monthlyRemitAmount)
	if err != nil {
		scoringErrors.Inc()
		return Projection{}, err
	}

	predictionsTotal.Inc()
	return proj, nil
}

// LatestScore returns the last persisted score, 0 if the user was never
// scored.
func (s *Service) LatestScore(ctx context.Context, userID int64) (int, error) {
	return s.store.LatestScore(ctx, userID)
}

// History returns the user's monthly average score history, oldest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.ScoreHistoryEntry, error) {
	return s.store.ScoreHistory(ctx, userID)
}
