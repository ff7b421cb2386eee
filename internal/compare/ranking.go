package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// Ranking criteria accepted by RankPolicies.
const (
	CriterionRevenue       = "revenue"
	CriterionProgressivity = "progressivity"
	CriterionEfficiency    = "efficiency"
)

var pointFive = decimal.NewFromFloat(0.5)

// RankPolicies scores policies against weighted criteria. Each metric
// is min-max normalized to [0,1] across the compared set (degenerate
// ranges normalize to 0.5); the composite score is the weighted sum.
// Ranks follow standard competition ranking: ties share the smallest
// rank and the next rank skips. Ties keep input order, so repeated
// calls are deterministic.
func (c *Comparator) RankPolicies(policies []domain.TaxPolicy, dist *domain.IncomeDistribution, criteria map[string]decimal.Decimal) (*Ranking, error) {
	for name, weight := range criteria {
		if weight.IsNegative() {
			return nil, fmt.Errorf("criterion %s has negative weight %s", name, weight.String())
		}
	}

	metrics, err := c.EfficiencyMetrics(policies, dist)
	if err != nil {
		return nil, err
	}

	revenueNorm := normalizeDecimals(pluck(metrics, func(r EfficiencyRow) decimal.Decimal { return r.TotalRevenue }))
	progNorm := normalizeDecimals(pluck(metrics, func(r EfficiencyRow) decimal.Decimal { return r.KakwaniIndex }))
	effNorm := normalizeEfficiency(metrics)

	entries := make([]RankedPolicy, len(metrics))
	for i, row := range metrics {
		normalized := map[string]decimal.Decimal{
			CriterionRevenue:       revenueNorm[i],
			CriterionProgressivity: progNorm[i],
			CriterionEfficiency:    effNorm[i],
		}

		score := decimal.Zero
		for criterion, weight := range criteria {
			if norm, ok := normalized[criterion]; ok {
				score = score.Add(weight.Mul(norm))
			}
		}

		entries[i] = RankedPolicy{
			PolicyName:     row.PolicyName,
			Normalized:     normalized,
			CompositeScore: score,
		}
	}

	// Descending composite score; equal scores keep input order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompositeScore.GreaterThan(entries[j].CompositeScore)
	})
	for i := range entries {
		if i > 0 && entries[i].CompositeScore.Equal(entries[i-1].CompositeScore) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return &Ranking{Criteria: criteria, Entries: entries}, nil
}

func pluck(rows []EfficiencyRow, get func(EfficiencyRow) decimal.Decimal) []decimal.Decimal {
	values := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		values[i] = get(row)
	}
	return values
}

// normalizeDecimals min-max scales a column to [0,1]; a zero-range
// column maps every value to 0.5.
func normalizeDecimals(values []decimal.Decimal) []decimal.Decimal {
	normalized := make([]decimal.Decimal, len(values))
	if len(values) == 0 {
		return normalized
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}

	span := max.Sub(min)
	for i, v := range values {
		if span.GreaterThan(decimal.Zero) {
			normalized[i] = v.Sub(min).Div(span)
		} else {
			normalized[i] = pointFive
		}
	}
	return normalized
}

// normalizeEfficiency handles the +Inf sentinel: infinite values
// normalize to 1 and the finite values are min-max scaled among
// themselves (0.5 when their range is degenerate).
func normalizeEfficiency(rows []EfficiencyRow) []decimal.Decimal {
	normalized := make([]decimal.Decimal, len(rows))

	finite := make([]float64, 0, len(rows))
	for _, row := range rows {
		if !math.IsInf(float64(row.RevenueEfficiency), 0) {
			finite = append(finite, float64(row.RevenueEfficiency))
		}
	}

	var min, max float64
	if len(finite) > 0 {
		min, max = finite[0], finite[0]
		for _, v := range finite[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	for i, row := range rows {
		switch {
		case row.RevenueEfficiency.IsInf():
			normalized[i] = decimal.NewFromInt(1)
		case max > min:
			normalized[i] = decimal.NewFromFloat((float64(row.RevenueEfficiency) - min) / (max - min))
		default:
			normalized[i] = pointFive
		}
	}
	return normalized
}
