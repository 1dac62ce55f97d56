package features

import (
	"math"
	"testing"
	"time"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Helpers ────────────────────────────────────────────────────────────────

// Tests pin "today" to 2025-06-15 so window edges are deterministic.
var testToday = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractorAt(func() time.Time { return testToday })
}

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func tptr(v time.Time) *time.Time {
	return &v
}

func daysAgo(n int) time.Time {
	return testToday.AddDate(0, 0, -n)
}

func salaryTx(ts time.Time, amount float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		Timestamp: ts,
		Amount:    amount,
		Direction: domain.DirectionIn,
		Category:  domain.CategorySalary,
	}
}

func spendTx(ts time.Time, amount float64, category string) domain.TransactionRecord {
	return domain.TransactionRecord{
		Timestamp: ts,
		Amount:    amount,
		Direction: domain.DirectionOut,
		Category:  category,
	}
}

// ─── Key Set Invariant ──────────────────────────────────────────────────────

func TestExtract_AlwaysPopulatesAllCanonicalKeys(t *testing.T) {
	ex := newTestExtractor(t)

	cases := []struct {
		name string
		rs   domain.RecordSet
	}{
		{"empty", domain.RecordSet{}},
		{"only transactions", domain.RecordSet{
			Transactions: []domain.TransactionRecord{salaryTx(daysAgo(10), 100)},
		}},
		{"only loans", domain.RecordSet{
			Loans: []domain.LoanRecord{{Principal: fptr(5_000_000)}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ex.Extract(tc.rs)
			if len(f) != domain.FeatureCount {
				t.Errorf("feature count = %d, want %d", len(f), domain.FeatureCount)
			}
			for _, name := range domain.FeatureOrder {
				if _, ok := f[name]; !ok {
					t.Errorf("missing canonical feature %q", name)
				}
			}
		})
	}
}

func TestExtract_EmptyRecordsDefaults(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{})

	for _, name := range domain.FeatureOrder {
		want := 0.0
		if name == "liquidity_months_3m" {
			want = LiquidityCapMonths
		}
		if f[name] != want {
			t.Errorf("%s = %v, want %v", name, f[name], want)
		}
	}
}

func TestExtract_Idempotent(t *testing.T) {
	ex := newTestExtractor(t)
	rs := domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 3_000_000),
			spendTx(daysAgo(20), 800_000, domain.CategoryLiving),
		},
		Remittances: []domain.RemittanceRecord{
			{CreatedAt: daysAgo(15), SendAmount: 400_000, Status: "SUCCESS"},
		},
	}

	first := ex.Extract(rs)
	second := ex.Extract(rs)
	for _, name := range domain.FeatureOrder {
		if first[name] != second[name] {
			t.Errorf("%s differs across calls: %v vs %v", name, first[name], second[name])
		}
	}
}

// ─── Income ─────────────────────────────────────────────────────────────────

func TestExtract_IncomeAverageAndVolatility(t *testing.T) {
	ex := newTestExtractor(t)
	rs := domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 3_000_000),
			salaryTx(daysAgo(60), 3_100_000),
			salaryTx(daysAgo(90), 2_900_000),
		},
	}

	f := ex.Extract(rs)
	if f["income_avg_6m"] != 3_000_000 {
		t.Errorf("income_avg_6m = %v, want 3000000", f["income_avg_6m"])
	}
	// Population stdev of [3.0M, 3.1M, 2.9M] ≈ 81,649.66
	if !almostEqual(f["income_volatility_6m"], 81_649.66, 1.0) {
		t.Errorf("income_volatility_6m = %v, want ≈81649.66", f["income_volatility_6m"])
	}
}

func TestExtract_SingleSalaryHasZeroVolatility(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{salaryTx(daysAgo(30), 3_000_000)},
	})
	if f["income_volatility_6m"] != 0 {
		t.Errorf("income_volatility_6m = %v, want 0 for a single sample", f["income_volatility_6m"])
	}
}

func TestExtract_SalaryOutsideWindowIgnored(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 3_000_000),
			salaryTx(testToday.AddDate(0, -7, 0), 9_000_000), // 7 months back
		},
	})
	if f["income_avg_6m"] != 3_000_000 {
		t.Errorf("income_avg_6m = %v, want 3000000 (old salary excluded)", f["income_avg_6m"])
	}
}

func TestExtract_WindowStartInclusive(t *testing.T) {
	ex := newTestExtractor(t)
	exactly6m := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{salaryTx(exactly6m, 2_500_000)},
	})
	if f["income_avg_6m"] != 2_500_000 {
		t.Errorf("income_avg_6m = %v, want 2500000 (window start is inclusive)", f["income_avg_6m"])
	}
}

// ─── Spending & Saving ──────────────────────────────────────────────────────

func TestExtract_SavingRate(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 2_000_000),
			spendTx(daysAgo(20), 500_000, domain.CategoryLiving),
		},
	})
	if !almostEqual(f["saving_rate_6m"], 0.75, 1e-9) {
		t.Errorf("saving_rate_6m = %v, want 0.75", f["saving_rate_6m"])
	}
}

func TestExtract_SavingRateClampedToMinusOne(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 100),
			spendTx(daysAgo(20), 1_000_000_000, domain.CategoryEtc),
		},
	})
	if f["saving_rate_6m"] != -1 {
		t.Errorf("saving_rate_6m = %v, want -1 (clamped)", f["saving_rate_6m"])
	}
}

func TestExtract_SavingRateZeroWithoutIncome(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			spendTx(daysAgo(20), 500_000, domain.CategoryRent),
		},
	})
	if f["saving_rate_6m"] != 0 {
		t.Errorf("saving_rate_6m = %v, want 0 when income is absent", f["saving_rate_6m"])
	}
}

func TestExtract_RemitOutCountsAsSpending(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			spendTx(daysAgo(10), 300_000, domain.CategoryRemitOut),
			spendTx(daysAgo(10), 100_000, domain.CategoryLiving),
		},
	})
	if f["spending_avg_6m"] != 200_000 {
		t.Errorf("spending_avg_6m = %v, want 200000", f["spending_avg_6m"])
	}
}

// ─── Balance & Liquidity ────────────────────────────────────────────────────

func TestExtract_MinBalanceAndLiquidity(t *testing.T) {
	ex := newTestExtractor(t)

	tx1 := spendTx(daysAgo(10), 600_000, domain.CategoryLiving)
	tx1.BalanceAfter = fptr(1_200_000)
	tx2 := spendTx(daysAgo(40), 600_000, domain.CategoryRent)
	tx2.BalanceAfter = fptr(900_000)
	tx3 := salaryTx(daysAgo(50), 2_000_000)
	tx3.BalanceAfter = nil // null balance is skipped

	f := ex.Extract(domain.RecordSet{Transactions: []domain.TransactionRecord{tx1, tx2, tx3}})

	if f["min_balance_3m"] != 900_000 {
		t.Errorf("min_balance_3m = %v, want 900000", f["min_balance_3m"])
	}
	// monthly spend = 1,200,000/3 = 400,000 → 900,000/400,000 = 2.25 months
	if !almostEqual(f["liquidity_months_3m"], 2.25, 1e-9) {
		t.Errorf("liquidity_months_3m = %v, want 2.25", f["liquidity_months_3m"])
	}
}

func TestExtract_LiquidityCappedAtTwelve(t *testing.T) {
	ex := newTestExtractor(t)
	tx := spendTx(daysAgo(5), 10, domain.CategoryEtc)
	tx.BalanceAfter = fptr(100_000_000)

	f := ex.Extract(domain.RecordSet{Transactions: []domain.TransactionRecord{tx}})
	if f["liquidity_months_3m"] != LiquidityCapMonths {
		t.Errorf("liquidity_months_3m = %v, want cap %v", f["liquidity_months_3m"], LiquidityCapMonths)
	}
}

func TestExtract_NegativeMinBalanceGivesNegativeLiquidity(t *testing.T) {
	ex := newTestExtractor(t)
	tx := spendTx(daysAgo(5), 300_000, domain.CategoryLiving)
	tx.BalanceAfter = fptr(-50_000)

	f := ex.Extract(domain.RecordSet{Transactions: []domain.TransactionRecord{tx}})
	if f["min_balance_3m"] != -50_000 {
		t.Errorf("min_balance_3m = %v, want -50000", f["min_balance_3m"])
	}
	if f["liquidity_months_3m"] >= 0 {
		t.Errorf("liquidity_months_3m = %v, want negative runway", f["liquidity_months_3m"])
	}
}

// ─── Remittances ────────────────────────────────────────────────────────────

func TestExtract_RemittanceStats(t *testing.T) {
	ex := newTestExtractor(t)
	rs := domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(30), 1_000_000),
			salaryTx(daysAgo(60), 1_000_000),
		},
		Remittances: []domain.RemittanceRecord{
			{CreatedAt: daysAgo(10), SendAmount: 300_000, Status: "SUCCESS"},
			{CreatedAt: daysAgo(40), SendAmount: 300_000, Status: "failed"}, // case-insensitive
			{CreatedAt: daysAgo(70), SendAmount: 400_000, Status: "SUCCESS"},
			{CreatedAt: testToday.AddDate(0, -8, 0), SendAmount: 900_000, Status: "FAILED"}, // out of window
		},
	}

	f := ex.Extract(rs)
	if f["remittance_count_6m"] != 3 {
		t.Errorf("remittance_count_6m = %v, want 3", f["remittance_count_6m"])
	}
	if !almostEqual(f["remittance_amount_avg_6m"], 1_000_000.0/3, 1e-6) {
		t.Errorf("remittance_amount_avg_6m = %v", f["remittance_amount_avg_6m"])
	}
	if !almostEqual(f["remittance_failure_rate_6m"], 1.0/3, 1e-9) {
		t.Errorf("remittance_failure_rate_6m = %v, want 1/3", f["remittance_failure_rate_6m"])
	}
	// 6m remit total 1,000,000 ÷ 6m salary total 2,000,000
	if !almostEqual(f["remittance_income_ratio"], 0.5, 1e-9) {
		t.Errorf("remittance_income_ratio = %v, want 0.5", f["remittance_income_ratio"])
	}
}

func TestExtract_CycleStability(t *testing.T) {
	cases := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{"no remittances", nil, 0.0},
		{"single remittance", []float64{500_000}, 0.0},
		{"perfectly regular", []float64{500_000, 500_000, 500_000}, 1.0},
		{"wildly irregular never negative", []float64{1, 1, 10_000}, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cycleStability(tc.amounts)
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("cycleStability(%v) = %v, want %v", tc.amounts, got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("cycleStability out of [0,1]: %v", got)
			}
		})
	}
}

// ─── Loans ──────────────────────────────────────────────────────────────────

func TestExtract_LoanOverdueScore(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Loans: []domain.LoanRecord{{
			Principal:       fptr(10_000_000),
			OverdueCount12M: iptr(2),
			MaxOverdueDays:  iptr(30),
			OverdueAmount:   fptr(500_000),
		}},
	})

	// 0.3×(2/5) + 0.4×(30/90) + 0.3×(500000/10000000) ≈ 0.2683
	if !almostEqual(f["loan_overdue_score"], 0.2683, 0.0001) {
		t.Errorf("loan_overdue_score = %v, want ≈0.2683", f["loan_overdue_score"])
	}
}

func TestExtract_LoanOverdueScoreClamped(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Loans: []domain.LoanRecord{{
			Principal:       fptr(1_000),
			OverdueCount12M: iptr(50),
			MaxOverdueDays:  iptr(900),
			OverdueAmount:   fptr(1_000_000),
		}},
	})
	if f["loan_overdue_score"] != 1 {
		t.Errorf("loan_overdue_score = %v, want 1 (clamped)", f["loan_overdue_score"])
	}
}

func TestExtract_DTIRatio(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Transactions: []domain.TransactionRecord{salaryTx(daysAgo(30), 2_000_000)},
		Loans:        []domain.LoanRecord{{Principal: fptr(12_000_000)}},
	})
	// 12,000,000 / (2,000,000 × 12) = 0.5
	if !almostEqual(f["dti_loan_ratio"], 0.5, 1e-9) {
		t.Errorf("dti_loan_ratio = %v, want 0.5", f["dti_loan_ratio"])
	}
}

func TestExtract_RecentOverdueFlag(t *testing.T) {
	ex := newTestExtractor(t)

	cases := []struct {
		name string
		at   *time.Time
		want float64
	}{
		{"recent overdue", tptr(daysAgo(60)), 1},
		{"old overdue", tptr(testToday.AddDate(0, -9, 0)), 0},
		{"never overdue", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ex.Extract(domain.RecordSet{
				Loans: []domain.LoanRecord{{LastOverdueAt: tc.at}},
			})
			if f["recent_overdue_flag"] != tc.want {
				t.Errorf("recent_overdue_flag = %v, want %v", f["recent_overdue_flag"], tc.want)
			}
		})
	}
}

// ─── Cards ──────────────────────────────────────────────────────────────────

func TestExtract_CardUtilization(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Cards: []domain.CardRecord{
			{Timestamp: daysAgo(5), CreditLimit: fptr(1_000_000), Outstanding: fptr(400_000)},
			{Timestamp: daysAgo(6), CreditLimit: fptr(2_000_000), Outstanding: fptr(1_900_000)},
			{Timestamp: daysAgo(7), CreditLimit: fptr(0), Outstanding: fptr(999_999)}, // skipped
		},
	})
	if !almostEqual(f["card_utilization_3m"], 0.95, 1e-9) {
		t.Errorf("card_utilization_3m = %v, want 0.95", f["card_utilization_3m"])
	}
}

func TestExtract_CashAdvanceRatio(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{
		Cards: []domain.CardRecord{
			{Timestamp: daysAgo(5), Amount: 700_000, PayType: domain.PayTypeCredit, Category: "SHOPPING"},
			{Timestamp: daysAgo(6), Amount: 300_000, PayType: domain.PayTypeCredit, Category: domain.CardCategoryCashAdvance},
			{Timestamp: daysAgo(7), Amount: 500_000, PayType: "DEBIT", Category: domain.CardCategoryCashAdvance}, // not credit
		},
	})
	if !almostEqual(f["card_cash_advance_ratio"], 0.3, 1e-9) {
		t.Errorf("card_cash_advance_ratio = %v, want 0.3", f["card_cash_advance_ratio"])
	}
}

// ─── Risk Events ────────────────────────────────────────────────────────────

func TestExtract_RiskEventCount(t *testing.T) {
	ex := newTestExtractor(t)
	rs := domain.RecordSet{
		Loans: []domain.LoanRecord{{OverdueCount12M: iptr(1)}},
		Remittances: []domain.RemittanceRecord{
			{CreatedAt: daysAgo(10), SendAmount: 100_000, Status: domain.RemittanceFailed},
		},
		Cards: []domain.CardRecord{
			{Timestamp: daysAgo(5), Amount: 100_000, PayType: domain.PayTypeCredit, Category: domain.CardCategoryCashAdvance},
			{Timestamp: daysAgo(6), CreditLimit: fptr(1_000_000), Outstanding: fptr(950_000)},
		},
	}

	// All four: overdue, failed remittance, cash-advance ratio 1.0 > 0.3,
	// utilization 0.95 > 0.9.
	f := ex.Extract(rs)
	if f["risk_event_count"] != 4 {
		t.Errorf("risk_event_count = %v, want 4", f["risk_event_count"])
	}
}

func TestExtract_RiskEventCountRange(t *testing.T) {
	ex := newTestExtractor(t)
	f := ex.Extract(domain.RecordSet{})
	if f["risk_event_count"] != 0 {
		t.Errorf("risk_event_count = %v, want 0", f["risk_event_count"])
	}
}

// ─── Calendar Windows ───────────────────────────────────────────────────────

func TestMonthsBefore_ClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		from   time.Time
		months int
		want   time.Time
	}{
		{time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), 3, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 3, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 6, time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got := monthsBefore(tc.from, tc.months)
		if !got.Equal(tc.want) {
			t.Errorf("monthsBefore(%v, %d) = %v, want %v", tc.from.Format(time.DateOnly), tc.months, got.Format(time.DateOnly), tc.want.Format(time.DateOnly))
		}
	}
}

// ─── Clamp Invariants Under Adversarial Magnitudes ──────────────────────────

func TestExtract_ClampInvariantsHoldForHugeInputs(t *testing.T) {
	ex := newTestExtractor(t)
	huge := math.MaxFloat64 / 4

	rs := domain.RecordSet{
		Transactions: []domain.TransactionRecord{
			salaryTx(daysAgo(10), 1),
			spendTx(daysAgo(5), huge, domain.CategoryLiving),
		},
		Loans: []domain.LoanRecord{{
			Principal:       fptr(1),
			OverdueCount12M: iptr(1 << 30),
			MaxOverdueDays:  iptr(1 << 30),
			OverdueAmount:   fptr(huge),
		}},
		Remittances: []domain.RemittanceRecord{
			{CreatedAt: daysAgo(1), SendAmount: huge, Status: "SUCCESS"},
			{CreatedAt: daysAgo(2), SendAmount: 1, Status: "SUCCESS"},
		},
	}

	f := ex.Extract(rs)
	if f["saving_rate_6m"] < -1 || f["saving_rate_6m"] > 1 {
		t.Errorf("saving_rate_6m out of [-1,1]: %v", f["saving_rate_6m"])
	}
	if f["loan_overdue_score"] < 0 || f["loan_overdue_score"] > 1 {
		t.Errorf("loan_overdue_score out of [0,1]: %v", f["loan_overdue_score"])
	}
	if f["remittance_cycle_stability"] < 0 || f["remittance_cycle_stability"] > 1 {
		t.Errorf("remittance_cycle_stability out of [0,1]: %v", f["remittance_cycle_stability"])
	}
	if f["liquidity_months_3m"] > LiquidityCapMonths {
		t.Errorf("liquidity_months_3m above cap: %v", f["liquidity_months_3m"])
	}
}
