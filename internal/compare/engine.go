package compare

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/calculation"
	"github.com/tpgo/tpgo/internal/domain"
)

// Comparator orchestrates the revenue calculator and burden analyzer
// across multiple policies, producing comparative summaries.
type Comparator struct {
	Revenue *calculation.RevenueCalculator
	Burden  *calculation.BurdenAnalyzer
}

// NewComparator creates a comparator with fresh calculators.
func NewComparator() *Comparator {
	return &Comparator{
		Revenue: calculation.NewRevenueCalculator(),
		Burden:  calculation.NewBurdenAnalyzer(),
	}
}

// SetLogger wires one logger into both underlying calculators.
func (c *Comparator) SetLogger(l calculation.Logger) {
	c.Revenue.SetLogger(l)
	c.Burden.SetLogger(l)
}

// ComprehensiveComparison fans out to every analysis: the revenue
// comparison table, the per-policy burden and incidence tables, and the
// progressivity table. Rows keep their policy identity via the
// PolicyName tag.
func (c *Comparator) ComprehensiveComparison(policies []domain.TaxPolicy, dist *domain.IncomeDistribution) (*ComparisonSet, error) {
	revenueRows, err := c.Revenue.ComparePolicies(policies, dist)
	if err != nil {
		return nil, err
	}

	set := &ComparisonSet{RevenueComparison: revenueRows}

	for _, policy := range policies {
		burden, err := c.Burden.AnalyzeByIncomeGroup(dist, policy)
		if err != nil {
			return nil, fmt.Errorf("burden analysis failed for %s: %w", policy.PolicyName(), err)
		}
		for _, group := range burden {
			set.BurdenAnalysis = append(set.BurdenAnalysis, BurdenRow{PolicyName: policy.PolicyName(), GroupBurden: group})
		}

		incidence, err := c.Burden.AnalyzeIncidence(dist, policy)
		if err != nil {
			return nil, fmt.Errorf("incidence analysis failed for %s: %w", policy.PolicyName(), err)
		}
		for _, group := range incidence {
			set.IncidenceAnalysis = append(set.IncidenceAnalysis, BurdenRow{PolicyName: policy.PolicyName(), GroupBurden: group})
		}

		prog, err := c.Burden.Progressivity(dist, policy)
		if err != nil {
			return nil, fmt.Errorf("progressivity analysis failed for %s: %w", policy.PolicyName(), err)
		}
		set.Progressivity = append(set.Progressivity, ProgressivityRow{
			PolicyName:       prog.PolicyName,
			AvgEffectiveRate: prog.AvgEffectiveRate,
			TotalTax:         prog.TotalTax,
			TotalIncome:      prog.TotalIncome,
			KakwaniIndex:     prog.KakwaniIndex,
			Classification:   prog.Classification,
		})
	}

	return set, nil
}

// EfficiencyMetrics derives per-policy efficiency figures. Revenue
// efficiency is total revenue over (average effective rate x total
// income); a zero rate yields +Inf, a sentinel for costless revenue
// rather than a fault.
func (c *Comparator) EfficiencyMetrics(policies []domain.TaxPolicy, dist *domain.IncomeDistribution) ([]EfficiencyRow, error) {
	rows := make([]EfficiencyRow, 0, len(policies))
	for _, policy := range policies {
		revenue, err := c.Revenue.CalculateRevenue(policy, dist)
		if err != nil {
			return nil, err
		}
		prog, err := c.Burden.Progressivity(dist, policy)
		if err != nil {
			return nil, err
		}

		efficiency := math.Inf(1)
		if prog.AvgEffectiveRate.GreaterThan(decimal.Zero) {
			denominator := prog.AvgEffectiveRate.Mul(revenue.TotalIncome)
			efficiency = revenue.TotalRevenue.Div(denominator).InexactFloat64()
		}

		avgTaxRate := decimal.Zero
		if revenue.TotalIncome.GreaterThan(decimal.Zero) {
			avgTaxRate = revenue.TotalRevenue.Div(revenue.TotalIncome)
		}

		rows = append(rows, EfficiencyRow{
			PolicyName:        policy.PolicyName(),
			TotalRevenue:      revenue.TotalRevenue,
			AvgTaxRate:        avgTaxRate,
			AvgEffectiveRate:  prog.AvgEffectiveRate,
			KakwaniIndex:      prog.KakwaniIndex,
			RevenueEfficiency: EfficiencyValue(efficiency),
			RevenuePerCapita:  revenue.RevenuePerCapita,
			Classification:    prog.Classification,
		})
	}
	return rows, nil
}

// PolicySummary condenses every policy to one line of headline metrics.
func (c *Comparator) PolicySummary(policies []domain.TaxPolicy, dist *domain.IncomeDistribution) ([]SummaryRow, error) {
	rows := make([]SummaryRow, 0, len(policies))
	for _, policy := range policies {
		revenue, err := c.Revenue.CalculateRevenue(policy, dist)
		if err != nil {
			return nil, err
		}
		prog, err := c.Burden.Progressivity(dist, policy)
		if err != nil {
			return nil, err
		}
		rows = append(rows, SummaryRow{
			PolicyName:       policy.PolicyName(),
			TotalRevenue:     revenue.TotalRevenue,
			RevenuePerCapita: revenue.RevenuePerCapita,
			AvgEffectiveRate: prog.AvgEffectiveRate,
			KakwaniIndex:     prog.KakwaniIndex,
			Classification:   prog.Classification,
		})
	}
	return rows, nil
}

// SensitivityAnalysis evaluates each parameter's candidate values
// against the base policy. Only the "rate" parameter of a
// rate-parameterized policy is substitutable; for any other
// parameter the base policy is evaluated unchanged at every point.
func (c *Comparator) SensitivityAnalysis(base domain.TaxPolicy, dist *domain.IncomeDistribution, ranges map[string][]decimal.Decimal) (map[string][]SensitivityPoint, error) {
	results := make(map[string][]SensitivityPoint, len(ranges))

	for paramName, values := range ranges {
		points := make([]SensitivityPoint, 0, len(values))
		for _, value := range values {
			candidate, err := substituteParameter(base, paramName, value)
			if err != nil {
				return nil, err
			}

			revenue, err := c.Revenue.CalculateRevenue(candidate, dist)
			if err != nil {
				return nil, err
			}
			prog, err := c.Burden.Progressivity(dist, candidate)
			if err != nil {
				return nil, err
			}

			points = append(points, SensitivityPoint{
				Parameter:        paramName,
				Value:            value,
				TotalRevenue:     revenue.TotalRevenue,
				AvgEffectiveRate: prog.AvgEffectiveRate,
				KakwaniIndex:     prog.KakwaniIndex,
				RevenuePerCapita: revenue.RevenuePerCapita,
			})
		}
		results[paramName] = points
	}

	return results, nil
}

// substituteParameter builds the modified policy for one sweep point.
// Bracket-parameter modification is not supported; unsupported
// parameters evaluate the base policy unchanged.
func substituteParameter(base domain.TaxPolicy, paramName string, value decimal.Decimal) (domain.TaxPolicy, error) {
	rp, ok := base.(domain.RateParameterized)
	if !ok || paramName != "rate" {
		return base, nil
	}
	modified, err := rp.WithRate(value)
	if err != nil {
		return nil, fmt.Errorf("failed to substitute rate %s on %s: %w", value.String(), base.PolicyName(), err)
	}
	return modified, nil
}
