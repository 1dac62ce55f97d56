package domain

// ─── Feature Vocabulary ─────────────────────────────────────────────────────
// The canonical feature order is a contract with the offline-trained model:
// the vector fed to the scaler MUST list values in exactly this order, or
// scoring silently breaks. Treat this list as versioned — any change requires
// a retrained artifact pair.

// FeatureOrder is the canonical 18-feature vector layout, version 1.
var FeatureOrder = []string{
	"income_avg_6m",
	"income_volatility_6m",
	"spending_avg_6m",
	"saving_rate_6m",
	"min_balance_3m",
	"liquidity_months_3m",
	"remittance_count_6m",
	"remittance_amount_avg_6m",
	"remittance_amount_std_6m",
	"remittance_income_ratio",
	"remittance_failure_rate_6m",
	"remittance_cycle_stability",
	"dti_loan_ratio",
	"loan_overdue_score",
	"recent_overdue_flag",
	"card_utilization_3m",
	"card_cash_advance_ratio",
	"risk_event_count",
}

// FeatureCount is the model's input dimensionality.
const FeatureCount = 18

// FeatureMapping holds one named numeric signal per canonical feature.
// The extractor always populates every key; consumers may treat a missing
// key as a bug.
type FeatureMapping map[string]float64

// Vector flattens the mapping into the canonical model input order.
// Missing keys contribute 0.0 so a partially built mapping still yields
// a well-formed vector.
func (m FeatureMapping) Vector() []float64 {
	vec := make([]float64, 0, len(FeatureOrder))
	for _, name := range FeatureOrder {
		vec = append(vec, m[name])
	}
	return vec
}

// Clone returns an independent copy, used by the growth projector to build
// hypothetical scenarios without mutating the caller's mapping.
func (m FeatureMapping) Clone() FeatureMapping {
	out := make(FeatureMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
