package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Score Persistence ──────────────────────────────────────────────────────

// SaveLatestScore upserts a user's current score. Re-scoring overwrites:
// last write wins.
func (db *DB) SaveLatestScore(ctx context.Context, userID int64, score int) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO credit_score (user_id, score, created_at, updated_at)
		VALUES (?, ?, datetime('now'), datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET
			score      = excluded.score,
			updated_at = datetime('now')
	`, userID, score)
	if err != nil {
		return fmt.Errorf("save latest score: %w", err)
	}
	return nil
}

// AppendScoreHistory records a score against today's period. One row per
// (user, day): scoring the same user twice in a day updates that day's row.
func (db *DB) AppendScoreHistory(ctx context.Context, userID int64, score int) error {
	return db.appendScoreHistoryAt(ctx, userID, score, time.Now())
}

func (db *DB) appendScoreHistoryAt(ctx context.Context, userID int64, score int, at time.Time) error {
	period := at.Format(time.DateOnly)
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO credit_score_history (user_id, period, score)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, period) DO UPDATE SET
			score = excluded.score
	`, userID, period, score)
	if err != nil {
		return fmt.Errorf("append score history: %w", err)
	}
	return nil
}

// LatestScore returns the user's last persisted score, 0 if never scored.
func (db *DB) LatestScore(ctx context.Context, userID int64) (int, error) {
	var score int
	err := db.db.QueryRowContext(ctx, `
		SELECT score FROM credit_score WHERE user_id = ?
	`, userID).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("latest score: %w", err)
	}
	return score, nil
}

// ScoreHistory returns the monthly average of a user's daily history rows,
// oldest month first. Averages round to the nearest integer.
func (db *DB) ScoreHistory(ctx context.Context, userID int64) ([]domain.ScoreHistoryEntry, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT
			CAST(strftime('%Y', period) AS INTEGER) AS year,
			CAST(strftime('%m', period) AS INTEGER) AS month,
			CAST(ROUND(AVG(score)) AS INTEGER) AS avg_score
		FROM credit_score_history
		WHERE user_id = ?
		GROUP BY year, month
		ORDER BY year, month
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("score history: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreHistoryEntry
	for rows.Next() {
		var e domain.ScoreHistoryEntry
		if err := rows.Scan(&e.Year, &e.Month, &e.AvgScore); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
