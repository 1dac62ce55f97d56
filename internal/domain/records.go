// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import "time"

// ─── Raw Record Types ───────────────────────────────────────────────────────
// One immutable row per financial event, sourced externally per user.
// Nullable columns are pointers; absent values degrade to safe defaults
// inside the feature extractor, never to errors.

// Direction is the money-flow side of a bank transaction.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Transaction categories recognized by the extractor. Rows carrying any
// other category string still parse; they simply match no feature rule.
const (
	CategorySalary    = "SALARY"
	CategoryLiving    = "LIVING"
	CategoryRent      = "RENT"
	CategoryEntertain = "ENTERTAIN"
	CategoryEtc       = "ETC"
	CategoryRemitOut  = "REMIT_OUT"
)

// Card record markers.
const (
	PayTypeCredit           = "CREDIT"
	CardCategoryCashAdvance = "CASH_ADVANCE"
)

// RemittanceFailed is the status value marking a failed remittance.
// Comparison is case-insensitive.
const RemittanceFailed = "FAILED"

// TransactionRecord is a single bank account movement.
type TransactionRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Amount       float64   `json:"amount"`
	Direction    Direction `json:"direction"`
	Category     string    `json:"category"`
	BalanceAfter *float64  `json:"balance_after,omitempty"`
}

// CardRecord is a single card usage event with the card's standing
// at collection time.
type CardRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Amount      float64   `json:"amount"`
	PayType     string    `json:"pay_type"`
	Category    string    `json:"category"`
	CreditLimit *float64  `json:"credit_limit,omitempty"`
	Outstanding *float64  `json:"outstanding_amt,omitempty"`
}

// LoanRecord is one loan contract with its trailing-12-month overdue stats.
type LoanRecord struct {
	Principal       *float64   `json:"principal,omitempty"`
	OverdueCount12M *int       `json:"overdue_count_12m,omitempty"`
	OverdueAmount   *float64   `json:"overdue_amount,omitempty"`
	MaxOverdueDays  *int       `json:"max_overdue_days,omitempty"`
	LastOverdueAt   *time.Time `json:"last_overdue_at,omitempty"`
}

// RemittanceRecord is a single cross-border remittance attempt.
type RemittanceRecord struct {
	CreatedAt  time.Time `json:"created_at"`
	SendAmount float64   `json:"send_amount"`
	Status     string    `json:"status"`
}

// RecordSet bundles the four raw input streams for one user.
type RecordSet struct {
	Transactions []TransactionRecord
	Cards        []CardRecord
	Loans        []LoanRecord
	Remittances  []RemittanceRecord
}

// ScoreHistoryEntry is a persisted monthly average of a user's scores.
type ScoreHistoryEntry struct {
	Year     int `json:"year"`
	Month    int `json:"month"`
	AvgScore int `json:"avg_score"`
}
