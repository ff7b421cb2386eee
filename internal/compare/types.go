package compare

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// EfficiencyValue is a float64 that can carry the +Inf "costless
// revenue" sentinel and still survive JSON encoding, where infinity is
// rendered as the string "Infinity".
type EfficiencyValue float64

// IsInf reports whether the value is the +Inf sentinel.
func (v EfficiencyValue) IsInf() bool { return math.IsInf(float64(v), 1) }

func (v EfficiencyValue) MarshalJSON() ([]byte, error) {
	if v.IsInf() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(v))
}

func (v *EfficiencyValue) UnmarshalJSON(data []byte) error {
	if string(data) == `"Infinity"` {
		*v = EfficiencyValue(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = EfficiencyValue(f)
	return nil
}

// BurdenRow is one income-band burden profile tagged with the policy it
// belongs to.
type BurdenRow struct {
	PolicyName string `json:"policyName"`
	domain.GroupBurden
}

// ProgressivityRow is one policy's progressivity profile.
type ProgressivityRow struct {
	PolicyName       string          `json:"policyName"`
	AvgEffectiveRate decimal.Decimal `json:"avgEffectiveRate"`
	TotalTax         decimal.Decimal `json:"totalTaxRevenue"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	KakwaniIndex     decimal.Decimal `json:"kakwaniIndex"`
	Classification   string          `json:"taxProgressivity"`
}

// EfficiencyRow carries the derived efficiency metrics of one policy.
// RevenueEfficiency stays a float because a zero average effective rate
// yields the +Inf sentinel, which decimal cannot represent.
type EfficiencyRow struct {
	PolicyName        string          `json:"policyName"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AvgTaxRate        decimal.Decimal `json:"avgTaxRate"`
	AvgEffectiveRate  decimal.Decimal `json:"avgEffectiveRate"`
	KakwaniIndex      decimal.Decimal `json:"progressivityIndex"`
	RevenueEfficiency EfficiencyValue `json:"revenueEfficiency"`
	RevenuePerCapita  decimal.Decimal `json:"revenuePerCapita"`
	Classification    string          `json:"taxProgressivity"`
}

// SummaryRow is one condensed line of the policy summary table.
type SummaryRow struct {
	PolicyName       string          `json:"policyName"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	RevenuePerCapita decimal.Decimal `json:"revenuePerCapita"`
	AvgEffectiveRate decimal.Decimal `json:"avgEffectiveRate"`
	KakwaniIndex     decimal.Decimal `json:"progressivityIndex"`
	Classification   string          `json:"taxProgressivity"`
}

// RankedPolicy is one policy's position in a weighted ranking.
type RankedPolicy struct {
	PolicyName     string                     `json:"policyName"`
	Normalized     map[string]decimal.Decimal `json:"normalized"`
	CompositeScore decimal.Decimal            `json:"compositeScore"`
	Rank           int                        `json:"rank"`
}

// Ranking is the outcome of RankPolicies: entries ordered by rank, with
// the criteria weights that produced them.
type Ranking struct {
	Criteria map[string]decimal.Decimal `json:"criteria"`
	Entries  []RankedPolicy             `json:"entries"`
}

// SensitivityPoint is one evaluated parameter value of a comparator
// sensitivity analysis.
type SensitivityPoint struct {
	Parameter        string          `json:"parameter"`
	Value            decimal.Decimal `json:"parameterValue"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	AvgEffectiveRate decimal.Decimal `json:"avgEffectiveRate"`
	KakwaniIndex     decimal.Decimal `json:"progressivityIndex"`
	RevenuePerCapita decimal.Decimal `json:"revenuePerCapita"`
}

// ComparisonSet bundles every table produced for one policy set over
// one distribution. Efficiency, Summary and Ranking are optional;
// formatters render whatever is present.
type ComparisonSet struct {
	RevenueComparison []domain.RevenueComparisonRow `json:"revenueComparison"`
	BurdenAnalysis    []BurdenRow                   `json:"taxBurdenAnalysis"`
	IncidenceAnalysis []BurdenRow                   `json:"incidenceAnalysis"`
	Progressivity     []ProgressivityRow            `json:"progressivityAnalysis"`
	Efficiency        []EfficiencyRow               `json:"efficiencyMetrics,omitempty"`
	Summary           []SummaryRow                  `json:"policySummary,omitempty"`
	Ranking           *Ranking                      `json:"ranking,omitempty"`
}
