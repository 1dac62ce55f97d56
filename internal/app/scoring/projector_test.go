package scoring

import (
	"errors"
	"testing"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Projector Tests ────────────────────────────────────────────────────────

func newTestProjector(raw float64) *Projector {
	return NewProjector(newTestCalculator(raw))
}

func TestProject_FloorsWithIncomeRatio(t *testing.T) {
	// Constant model output 700, income 2M, remit 1M/month:
	// ratio = min(0.5, 0.5) → factor 10.
	proj := newTestProjector(700)
	f := domain.FeatureMapping{"income_avg_6m": 2_000_000}

	got, err := proj.Project(f, 1_000_000)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	if got.CurrentScore != 700 {
		t.Fatalf("current = %d, want 700", got.CurrentScore)
	}
	// floors: +5+5, then +4+3, then +6+2
	if got.After6M.Score != 710 {
		t.Errorf("after 6m = %d, want 710", got.After6M.Score)
	}
	if got.After12M.Score != 717 {
		t.Errorf("after 12m = %d, want 717", got.After12M.Score)
	}
	if got.After18M.Score != 725 {
		t.Errorf("after 18m = %d, want 725", got.After18M.Score)
	}
	if got.After18M.Delta != 25 {
		t.Errorf("18m delta = %d, want 25", got.After18M.Delta)
	}
}

func TestProject_FallbackBonusWithoutIncome(t *testing.T) {
	// income_avg_6m = 0 → guarded division, fixed factor 2.0:
	// floors become +5+1, +4+0, +6+0.
	proj := newTestProjector(600)
	f := domain.FeatureMapping{"income_avg_6m": 0}

	got, err := proj.Project(f, 0)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	if got.After6M.Score != 606 {
		t.Errorf("after 6m = %d, want 606", got.After6M.Score)
	}
	if got.After12M.Score != 610 {
		t.Errorf("after 12m = %d, want 610", got.After12M.Score)
	}
	if got.After18M.Score != 616 {
		t.Errorf("after 18m = %d, want 616", got.After18M.Score)
	}
}

func TestProject_RatioCappedAtHalf(t *testing.T) {
	// Enormous remittance relative to income still caps the factor at 10.
	proj := newTestProjector(700)
	f := domain.FeatureMapping{"income_avg_6m": 1_000}

	got, err := proj.Project(f, 1_000_000_000)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if got.After6M.Score != 710 {
		t.Errorf("after 6m = %d, want 710 (factor capped)", got.After6M.Score)
	}
}

func TestProject_CapNeverBreaksMonotonicity(t *testing.T) {
	proj := newTestProjector(915)

	got, err := proj.Project(domain.FeatureMapping{"income_avg_6m": 2_000_000}, 1_000_000)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	if got.After6M.Score != 920 || got.After12M.Score != 920 || got.After18M.Score != 920 {
		t.Errorf("capped horizons = %d/%d/%d, want 920/920/920",
			got.After6M.Score, got.After12M.Score, got.After18M.Score)
	}
}

func TestProject_Monotonicity(t *testing.T) {
	cases := []struct {
		name   string
		raw    float64
		income float64
		amount float64
	}{
		{"zero amount zero income", 600, 0, 0},
		{"small habit", 650, 3_000_000, 100_000},
		{"large habit", 700, 2_000_000, 5_000_000},
		{"near ceiling", 918, 2_000_000, 1_000_000},
		{"at floor", 200, 0, 50_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proj := newTestProjector(tc.raw)
			got, err := proj.Project(domain.FeatureMapping{"income_avg_6m": tc.income}, tc.amount)
			if err != nil {
				t.Fatalf("Project() error: %v", err)
			}

			if got.After6M.Score < got.CurrentScore {
				t.Errorf("6m %d below current %d", got.After6M.Score, got.CurrentScore)
			}
			if got.After12M.Score < got.After6M.Score {
				t.Errorf("12m %d below 6m %d", got.After12M.Score, got.After6M.Score)
			}
			if got.After18M.Score < got.After12M.Score {
				t.Errorf("18m %d below 12m %d", got.After18M.Score, got.After12M.Score)
			}
			if got.After18M.Score > 920 {
				t.Errorf("18m %d exceeds ceiling", got.After18M.Score)
			}
		})
	}
}

func TestProject_NegativeAmountRejected(t *testing.T) {
	proj := newTestProjector(700)

	_, err := proj.Project(domain.FeatureMapping{}, -100)
	if !errors.Is(err, domain.ErrNegativeRemitAmount) {
		t.Fatalf("err = %v, want ErrNegativeRemitAmount", err)
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	proj := newTestProjector(700)
	f := domain.FeatureMapping{
		"income_avg_6m":              2_000_000,
		"remittance_count_6m":        1,
		"remittance_failure_rate_6m": 0.5,
		"remittance_cycle_stability": 0.1,
		"min_balance_3m":             500_000,
		"liquidity_months_3m":        3,
	}
	want := f.Clone()

	if _, err := proj.Project(f, 300_000); err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("input feature %s mutated: %v → %v", k, v, f[k])
		}
	}
}

func TestProject_AssignsPredictionID(t *testing.T) {
	proj := newTestProjector(700)

	a, err := proj.Project(domain.FeatureMapping{}, 0)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	b, _ := proj.Project(domain.FeatureMapping{}, 0)

	if a.ID == "" {
		t.Error("projection ID is empty")
	}
	if a.ID == b.ID {
		t.Error("projection IDs should be unique per call")
	}
}

func TestProject_ModelErrorAborts(t *testing.T) {
	calc := NewCalculator(&identityScaler{}, nil, DefaultConfig())
	proj := NewProjector(calc)

	_, err := proj.Project(domain.FeatureMapping{}, 100)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}
