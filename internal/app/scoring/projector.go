package scoring

import (
	"github.com/google/uuid"

	"github.com/scorewise/scorewise/internal/domain"
)

// ─── Growth Projection ──────────────────────────────────────────────────────
// Simulates the score trajectory of a user who adopts a steady monthly
// remittance habit: 6 on-time remittances per half-year, zero failures, and
// progressively higher cycle stability and liquidity at each horizon.
//
// Each horizon gets a guaranteed minimum rise over the previous one
// (scaled by how large the remittance is relative to income), then all
// horizons are capped at MaxScore and monotonicity is re-enforced so the
// cap never breaks ordering.

const (
	// RatioCap limits how much of the income ratio feeds the simulation.
	RatioCap = 0.5

	// FallbackBonusFactor applies when income is unknown and the
	// remittance-to-income ratio cannot be computed.
	FallbackBonusFactor = 2.0

	// Cycle stability assumed at each horizon of steady remitting.
	stability6M  = 0.90
	stability12M = 0.95
	stability18M = 0.99

	// Liquidity growth multipliers at the later horizons.
	liquidityGrowth12M = 1.05
	liquidityGrowth18M = 1.10
)

// Scenario is one future checkpoint: the projected score and its distance
// from the current score.
type Scenario struct {
	Score int `json:"score"`
	Delta int `json:"delta"`
}

// Projection is the full growth simulation result.
type Projection struct {
	ID                 string   `json:"prediction_id"`
	MonthlyRemitAmount float64  `json:"monthly_remit_amount"`
	CurrentScore       int      `json:"current_score"`
	After6M            Scenario `json:"after_6m"`
	After12M           Scenario `json:"after_12m"`
	After18M           Scenario `json:"after_18m"`
}

// Projector runs the three-stage growth simulation.
type Projector struct {
	calc  *Calculator
	newID func() string
}

// NewProjector creates a projector scoring through calc.
func NewProjector(calc *Calculator) *Projector {
	return &Projector{calc: calc, newID: uuid.NewString}
}

// Project computes the current score plus the 6/12/18-month scenarios for a
// hypothetical steady remittance of monthlyRemitAmount per month.
//
// Invariant: After6M.Score ≤ After12M.Score ≤ After18M.Score ≤ MaxScore.
func (p *Projector) Project(f domain.FeatureMapping, monthlyRemitAmount float64) (Projection, error) {
	if monthlyRemitAmount < 0 {
		return Projection{}, domain.ErrNegativeRemitAmount
	}

	currentScore, err := p.calc.Score(f)
	if err != nil {
		return Projection{}, err
	}

	// Baseline future mapping: steady, failure-free remitting.
	base := f.Clone()
	base["remittance_count_6m"] = 6
	base["remittance_failure_rate_6m"] = 0

	ratioScoreFactor := FallbackBonusFactor
	if income := base["income_avg_6m"]; income > 0 {
		ratio := min(RatioCap, monthlyRemitAmount/income)
		base["remittance_income_ratio"] = ratio
		ratioScoreFactor = ratio * 20
	} else {
		base["remittance_income_ratio"] = 0
	}

	// 6-month horizon.
	feat6m := base.Clone()
	feat6m["remittance_cycle_stability"] = stability6M
	aiScore6m, err := p.calc.Score(feat6m)
	if err != nil {
		return Projection{}, err
	}
	score6m := max(aiScore6m, currentScore+5+int(ratioScoreFactor*0.5))

	// 12-month horizon: stability and liquidity both improve.
	feat12m := base.Clone()
	feat12m["remittance_cycle_stability"] = stability12M
	feat12m["min_balance_3m"] *= liquidityGrowth12M
	feat12m["liquidity_months_3m"] *= liquidityGrowth12M
	aiScore12m, err := p.calc.Score(feat12m)
	if err != nil {
		return Projection{}, err
	}
	score12m := max(aiScore12m, score6m+4+int(ratioScoreFactor*0.3))

	// 18-month horizon.
	feat18m := base.Clone()
	feat18m["remittance_cycle_stability"] = stability18M
	feat18m["min_balance_3m"] *= liquidityGrowth18M
	feat18m["liquidity_months_3m"] *= liquidityGrowth18M
	aiScore18m, err := p.calc.Score(feat18m)
	if err != nil {
		return Projection{}, err
	}
	score18m := max(aiScore18m, score12m+6+int(ratioScoreFactor*0.2))

	// Cap, then re-enforce ordering so the cap cannot invert horizons.
	_, maxScore := p.calc.Bounds()
	score6m = min(score6m, maxScore)
	score12m = min(score12m, maxScore)
	score18m = min(score18m, maxScore)

	score12m = max(score12m, score6m)
	score18m = max(score18m, score12m)

	return Projection{
		ID:                 p.newID(),
		MonthlyRemitAmount: monthlyRemitAmount,
		CurrentScore:       currentScore,
		After6M:            Scenario{Score: score6m, Delta: score6m - currentScore},
		After12M:           Scenario{Score: score12m, Delta: score12m - currentScore},
		After18M:           Scenario{Score: score18m, Delta: score18m - currentScore},
	}, nil
}
