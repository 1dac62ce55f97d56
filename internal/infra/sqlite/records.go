package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Raw Record Reads ───────────────────────────────────────────────────────

// FetchRecords loads the four raw record collections for one user.
// Rows with NULL or malformed fields are returned with safe defaults —
// filtering and degradation policy belong to the feature extractor.
func (db *DB) FetchRecords(ctx context.Context, userID int64) (domain.RecordSet, error) {
	var rs domain.RecordSet
	var err error

	if rs.Transactions, err = db.fetchTransactions(ctx, userID); err != nil {
		return domain.RecordSet{}, err
	}
	if rs.Cards, err = db.fetchCards(ctx, userID); err != nil {
		return domain.RecordSet{}, err
	}
	if rs.Loans, err = db.fetchLoans(ctx, userID); err != nil {
		return domain.RecordSet{}, err
	}
	if rs.Remittances, err = db.fetchRemittances(ctx, userID); err != nil {
		return domain.RecordSet{}, err
	}
	return rs, nil
}

func (db *DB) fetchTransactions(ctx context.Context, userID int64) ([]domain.TransactionRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT tx_datetime, amount, direction, category, balance_after
		FROM transaction_raw WHERE user_id = ? ORDER BY tx_datetime
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		var ts, direction, category sql.NullString
		var amount, balance sql.NullFloat64
		if err := rows.Scan(&ts, &amount, &direction, &category, &balance); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, domain.TransactionRecord{
			Timestamp:    parseTime(ts),
			Amount:       floatOrZero(amount),
			Direction:    domain.Direction(stringOrEmpty(direction)),
			Category:     stringOrEmpty(category),
			BalanceAfter: floatPtr(balance),
		})
	}
	return out, rows.Err()
}

func (db *DB) fetchCards(ctx context.Context, userID int64) ([]domain.CardRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT tx_datetime, tx_amount, pay_type, tx_category, credit_limit, outstanding_amt
		FROM card_raw WHERE user_id = ? ORDER BY tx_datetime
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []domain.CardRecord
	for rows.Next() {
		var ts, payType, category sql.NullString
		var amount, limit, outstanding sql.NullFloat64
		if err := rows.Scan(&ts, &amount, &payType, &category, &limit, &outstanding); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, domain.CardRecord{
			Timestamp:   parseTime(ts),
			Amount:      floatOrZero(amount),
			PayType:     stringOrEmpty(payType),
			Category:    stringOrEmpty(category),
			CreditLimit: floatPtr(limit),
			Outstanding: floatPtr(outstanding),
		})
	}
	return out, rows.Err()
}

func (db *DB) fetchLoans(ctx context.Context, userID int64) ([]domain.LoanRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT loan_principal, overdue_count_12m, overdue_amount, max_overdue_days, last_overdue_dt
		FROM loan_raw WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var out []domain.LoanRecord
	for rows.Next() {
		var principal, overdueAmt sql.NullFloat64
		var overdueCount, maxDays sql.NullInt64
		var lastOverdue sql.NullString
		if err := rows.Scan(&principal, &overdueCount, &overdueAmt, &maxDays, &lastOverdue); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, domain.LoanRecord{
			Principal:       floatPtr(principal),
			OverdueCount12M: intPtr(overdueCount),
			OverdueAmount:   floatPtr(overdueAmt),
			MaxOverdueDays:  intPtr(maxDays),
			LastOverdueAt:   parseTimePtr(lastOverdue),
		})
	}
	return out, rows.Err()
}

func (db *DB) fetchRemittances(ctx context.Context, userID int64) ([]domain.RemittanceRecord, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT remittance_date, send_amount, status
		FROM remittance_raw WHERE user_id = ? ORDER BY remittance_date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query remittances: %w", err)
	}
	defer rows.Close()

	var out []domain.RemittanceRecord
	for rows.Next() {
		var date, status sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&date, &amount, &status); err != nil {
			return nil, fmt.Errorf("scan remittance: %w", err)
		}
		out = append(out, domain.RemittanceRecord{
			CreatedAt:  parseTime(date),
			SendAmount: floatOrZero(amount),
			Status:     stringOrEmpty(status),
		})
	}
	return out, rows.Err()
}

// ─── Raw Record Writes ──────────────────────────────────────────────────────
// Ingestion endpoints for collectors and fixtures.

// InsertTransaction stores one raw bank transaction.
func (db *DB) InsertTransaction(ctx context.Context, userID int64, r domain.TransactionRecord) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO transaction_raw (user_id, tx_datetime, amount, direction, category, balance_after)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, r.Timestamp.Format(time.RFC3339), r.Amount, string(r.Direction), r.Category, r.BalanceAfter)
	return err
}

// InsertCard stores one raw card event.
func (db *DB) InsertCard(ctx context.Context, userID int64, r domain.CardRecord) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO card_raw (user_id, tx_datetime, tx_amount, pay_type, tx_category, credit_limit, outstanding_amt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, userID, r.Timestamp.Format(time.RFC3339), r.Amount, r.PayType, r.Category, r.CreditLimit, r.Outstanding)
	return err
}

// InsertLoan stores one raw loan contract.
func (db *DB) InsertLoan(ctx context.Context, userID int64, r domain.LoanRecord) error {
	var lastOverdue *string
	if r.LastOverdueAt != nil {
		s := r.LastOverdueAt.Format(time.RFC3339)
		lastOverdue = &s
	}
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO loan_raw (user_id, loan_principal, overdue_count_12m, overdue_amount, max_overdue_days, last_overdue_dt)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, r.Principal, r.OverdueCount12M, r.OverdueAmount, r.MaxOverdueDays, lastOverdue)
	return err
}

// InsertRemittance stores one raw remittance attempt.
func (db *DB) InsertRemittance(ctx context.Context, userID int64, r domain.RemittanceRecord) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO remittance_raw (user_id, remittance_date, send_amount, status)
		VALUES (?, ?, ?, ?)
	`, userID, r.CreatedAt.Format(time.RFC3339), r.SendAmount, r.Status)
	return err
}
