// Package features converts raw per-user financial event logs into the
// fixed-vocabulary numeric feature mapping consumed by the scoring model.
//
// Extraction is pure: same records + same reference date = same mapping.
// Malformed or absent values never fail a call — they degrade to 0.0/0
// (or skip the row) so one bad row cannot poison a user's score.
package features

import (
	"math"
	"strings"
	"time"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Window Constants ───────────────────────────────────────────────────────

const (
	// LiquidityCapMonths caps the liquidity runway feature. No spending at
	// all counts as a maximal runway.
	LiquidityCapMonths = 12.0

	// Thresholds for the composite risk-event count.
	cashAdvanceRiskThreshold = 0.3
	utilizationRiskThreshold = 0.9
)

// spendingCategories are the OUT-direction categories that count as
// consumption for both the 6-month spending average and the 3-month
// liquidity denominator.
var spendingCategories = map[string]bool{
	domain.CategoryLiving:    true,
	domain.CategoryRent:      true,
	domain.CategoryEntertain: true,
	domain.CategoryEtc:       true,
	domain.CategoryRemitOut:  true,
}

// Extractor derives the canonical feature mapping from raw records.
// The reference clock is injectable so tests can pin "today".
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an extractor using the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// NewExtractorAt returns an extractor with a fixed reference clock.
func NewExtractorAt(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract computes all 18 canonical features for one user's records.
// Every key in domain.FeatureOrder is always present in the result.
func (e *Extractor) Extract(rs domain.RecordSet) domain.FeatureMapping {
	today := dateOf(e.now())
	start6m := monthsBefore(today, 6)
	start3m := monthsBefore(today, 3)

	f := make(domain.FeatureMapping, domain.FeatureCount)

	// ── Income ──────────────────────────────────────────────────────────

	var salary []float64
	for _, tx := range rs.Transactions {
		if inWindow(tx.Timestamp, start6m) &&
			tx.Direction == domain.DirectionIn &&
			tx.Category == domain.CategorySalary {
			salary = append(salary, tx.Amount)
		}
	}
	f["income_avg_6m"] = mean(salary)
	f["income_volatility_6m"] = populationStdDev(salary)

	// ── Spending ────────────────────────────────────────────────────────

	var spend6m []float64
	spend3mTotal := 0.0
	for _, tx := range rs.Transactions {
		if tx.Direction != domain.DirectionOut || !spendingCategories[tx.Category] {
			continue
		}
		if inWindow(tx.Timestamp, start6m) {
			spend6m = append(spend6m, tx.Amount)
		}
		if inWindow(tx.Timestamp, start3m) {
			spend3mTotal += tx.Amount
		}
	}
	f["spending_avg_6m"] = mean(spend6m)

	if f["income_avg_6m"] > 0 {
		f["saving_rate_6m"] = clamp((f["income_avg_6m"]-f["spending_avg_6m"])/f["income_avg_6m"], -1, 1)
	} else {
		f["saving_rate_6m"] = 0.0
	}

	// ── Balance & Liquidity ─────────────────────────────────────────────

	minBalance := 0.0
	haveBalance := false
	for _, tx := range rs.Transactions {
		if !inWindow(tx.Timestamp, start3m) || tx.BalanceAfter == nil {
			continue
		}
		if !haveBalance || *tx.BalanceAfter < minBalance {
			minBalance = *tx.BalanceAfter
			haveBalance = true
		}
	}
	f["min_balance_3m"] = minBalance

	monthlySpend := spend3mTotal / 3
	if monthlySpend > 0 {
		f["liquidity_months_3m"] = math.Min(LiquidityCapMonths, minBalance/monthlySpend)
	} else {
		f["liquidity_months_3m"] = LiquidityCapMonths
	}

	// ── Remittances ─────────────────────────────────────────────────────

	var remitAmounts []float64
	remitTotal := 0.0
	failCount := 0
	for _, r := range rs.Remittances {
		if !inWindow(r.CreatedAt, start6m) {
			continue
		}
		remitAmounts = append(remitAmounts, r.SendAmount)
		remitTotal += r.SendAmount
		if strings.EqualFold(r.Status, domain.RemittanceFailed) {
			failCount++
		}
	}
	f["remittance_count_6m"] = float64(len(remitAmounts))
	f["remittance_amount_avg_6m"] = mean(remitAmounts)
	f["remittance_amount_std_6m"] = populationStdDev(remitAmounts)

	salaryTotal := sum(salary)
	if salaryTotal > 0 {
		f["remittance_income_ratio"] = remitTotal / salaryTotal
	} else {
		f["remittance_income_ratio"] = 0.0
	}

	if len(remitAmounts) > 0 {
		f["remittance_failure_rate_6m"] = float64(failCount) / float64(len(remitAmounts))
	} else {
		f["remittance_failure_rate_6m"] = 0.0
	}

	f["remittance_cycle_stability"] = cycleStability(remitAmounts)

	// ── Loans ───────────────────────────────────────────────────────────

	principalTotal := 0.0
	overdueCount := 0
	maxOverdueDays := 0
	overdueAmtTotal := 0.0
	var lastOverdue time.Time
	for _, l := range rs.Loans {
		if l.Principal != nil {
			principalTotal += *l.Principal
		}
		if l.OverdueCount12M != nil {
			overdueCount += *l.OverdueCount12M
		}
		if l.MaxOverdueDays != nil && *l.MaxOverdueDays > maxOverdueDays {
			maxOverdueDays = *l.MaxOverdueDays
		}
		if l.OverdueAmount != nil {
			overdueAmtTotal += *l.OverdueAmount
		}
		if l.LastOverdueAt != nil && l.LastOverdueAt.After(lastOverdue) {
			lastOverdue = *l.LastOverdueAt
		}
	}

	annualIncome := f["income_avg_6m"] * 12
	if annualIncome > 0 {
		f["dti_loan_ratio"] = principalTotal / annualIncome
	} else {
		f["dti_loan_ratio"] = 0.0
	}

	amtPart := 0.0
	if principalTotal > 0 {
		amtPart = overdueAmtTotal / principalTotal
	}
	f["loan_overdue_score"] = clamp(
		0.3*(float64(overdueCount)/5)+
			0.4*(float64(maxOverdueDays)/90)+
			0.3*amtPart,
		0, 1)

	if !lastOverdue.IsZero() && inWindow(lastOverdue, start6m) {
		f["recent_overdue_flag"] = 1
	} else {
		f["recent_overdue_flag"] = 0
	}

	// ── Cards ───────────────────────────────────────────────────────────

	utilization := 0.0
	for _, c := range rs.Cards {
		// Skip cards without a meaningful limit.
		if c.CreditLimit == nil || *c.CreditLimit <= 0 || c.Outstanding == nil {
			continue
		}
		if u := *c.Outstanding / *c.CreditLimit; u > utilization {
			utilization = u
		}
	}
	f["card_utilization_3m"] = utilization

	cardSpendTotal := 0.0
	cashAdvanceTotal := 0.0
	for _, c := range rs.Cards {
		if !inWindow(c.Timestamp, start3m) || c.PayType != domain.PayTypeCredit {
			continue
		}
		cardSpendTotal += c.Amount
		if c.Category == domain.CardCategoryCashAdvance {
			cashAdvanceTotal += c.Amount
		}
	}
	if cardSpendTotal > 0 {
		f["card_cash_advance_ratio"] = cashAdvanceTotal / cardSpendTotal
	} else {
		f["card_cash_advance_ratio"] = 0.0
	}

	// ── Composite Risk Events ───────────────────────────────────────────

	riskCount := 0
	if overdueCount > 0 {
		riskCount++
	}
	if failCount > 0 {
		riskCount++
	}
	if f["card_cash_advance_ratio"] > cashAdvanceRiskThreshold {
		riskCount++
	}
	if utilization > utilizationRiskThreshold {
		riskCount++
	}
	f["risk_event_count"] = float64(riskCount)

	return f
}

// cycleStability scores how regular a user's remittance amounts are, in
// [0, 1]. Fewer than 2 samples or a non-positive average scores 0.
func cycleStability(amounts []float64) float64 {
	if len(amounts) < 2 {
		return 0.0
	}
	avg := mean(amounts)
	if avg <= 0 {
		return 0.0
	}
	return math.Max(0, 1-populationStdDev(amounts)/avg)
}

// ─── Date Helpers ───────────────────────────────────────────────────────────

// dateOf truncates a timestamp to its calendar date (UTC-agnostic: the
// record's own location is kept).
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthsBefore subtracts whole calendar months, clamping to the last day of
// the target month (Mar 31 − 1 month = Feb 28/29, never Mar 2/3).
func monthsBefore(day time.Time, months int) time.Time {
	y, m, d := day.Date()
	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, day.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, day.Location())
}

// inWindow reports whether ts falls on or after the window start.
func inWindow(ts time.Time, start time.Time) bool {
	return !dateOf(ts).Before(start)
}

// ─── Numeric Helpers ────────────────────────────────────────────────────────

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	return sum(xs) / float64(len(xs))
}

// populationStdDev returns the population (not sample) standard deviation,
// 0.0 for fewer than 2 values.
func populationStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0.0
	}
	m := mean(xs)
	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
