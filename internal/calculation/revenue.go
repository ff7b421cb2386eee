package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// RevenueCalculator applies a tax policy across a weighted income
// distribution and produces aggregate and per-quintile revenue
// statistics.
type RevenueCalculator struct {
	logger Logger
}

// NewRevenueCalculator creates a revenue calculator with a no-op
// logger.
func NewRevenueCalculator() *RevenueCalculator {
	return &RevenueCalculator{logger: NopLogger{}}
}

// SetLogger replaces the calculator's logger.
func (rc *RevenueCalculator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	rc.logger = l
}

// CalculateRevenue computes total revenue, the average effective rate,
// revenue per capita and the quintile revenue breakdown for one policy
// over one distribution. The distribution is never mutated; the
// annotated rows in the result are fresh records.
func (rc *RevenueCalculator) CalculateRevenue(policy domain.TaxPolicy, dist *domain.IncomeDistribution) (*domain.RevenueResult, error) {
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	detail := make([]domain.TaxedBand, 0, len(dist.Bands))
	for _, band := range dist.Bands {
		detail = append(detail, domain.TaxedBand{
			Income:        band.Income,
			Population:    band.Population,
			Tax:           policy.CalculateTax(band.Income),
			EffectiveRate: domain.EffectiveRate(policy, band.Income),
			MarginalRate:  policy.MarginalRate(band.Income),
		})
	}

	totalPopulation := decimal.Zero
	totalIncome := decimal.Zero
	totalRevenue := decimal.Zero
	for _, row := range detail {
		totalPopulation = totalPopulation.Add(row.Population)
		totalIncome = totalIncome.Add(row.Income.Mul(row.Population))
		totalRevenue = totalRevenue.Add(row.Tax.Mul(row.Population))
	}

	// Zero totals degrade to defined zeros, not faults.
	avgEffectiveRate := decimal.Zero
	if totalIncome.GreaterThan(decimal.Zero) {
		avgEffectiveRate = totalRevenue.Div(totalIncome)
	}
	revenuePerCapita := decimal.Zero
	if totalPopulation.GreaterThan(decimal.Zero) {
		revenuePerCapita = totalRevenue.Div(totalPopulation)
	}

	rc.logger.Debugf("revenue for %s: total=%s avgRate=%s", policy.PolicyName(),
		totalRevenue.StringFixed(2), avgEffectiveRate.StringFixed(4))

	return &domain.RevenueResult{
		PolicyName:           policy.PolicyName(),
		TotalRevenue:         totalRevenue,
		TotalPopulation:      totalPopulation,
		TotalIncome:          totalIncome,
		AverageEffectiveRate: avgEffectiveRate,
		RevenuePerCapita:     revenuePerCapita,
		QuintileRevenue:      quintileRevenue(detail, totalPopulation),
		Detail:               detail,
	}, nil
}

// quintileRevenue partitions the cumulative population range into five
// equal-width bands and assigns each row's tax contribution to the band
// containing its cumulative-population endpoint. The top band has no
// upper bound so the five bands always sum to total revenue.
func quintileRevenue(detail []domain.TaxedBand, totalPopulation decimal.Decimal) [domain.QuintileCount]decimal.Decimal {
	var quintiles [domain.QuintileCount]decimal.Decimal
	if totalPopulation.LessThanOrEqual(decimal.Zero) {
		return quintiles
	}

	sorted := make([]domain.TaxedBand, len(detail))
	copy(sorted, detail)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Income.LessThan(sorted[j].Income)
	})

	quintileSize := totalPopulation.Div(decimal.NewFromInt(domain.QuintileCount))
	cumulative := decimal.Zero
	for _, row := range sorted {
		cumulative = cumulative.Add(row.Population)
		if row.Population.IsZero() {
			continue
		}
		for q := 0; q < domain.QuintileCount; q++ {
			start := quintileSize.Mul(decimal.NewFromInt(int64(q)))
			end := quintileSize.Mul(decimal.NewFromInt(int64(q + 1)))
			inBand := cumulative.GreaterThan(start) &&
				(q == domain.QuintileCount-1 || cumulative.LessThanOrEqual(end))
			if inBand {
				quintiles[q] = quintiles[q].Add(row.Tax.Mul(row.Population))
				break
			}
		}
	}
	return quintiles
}

// ComparePolicies tabulates the headline revenue metrics of several
// policies side by side.
func (rc *RevenueCalculator) ComparePolicies(policies []domain.TaxPolicy, dist *domain.IncomeDistribution) ([]domain.RevenueComparisonRow, error) {
	rows := make([]domain.RevenueComparisonRow, 0, len(policies))
	for _, policy := range policies {
		result, err := rc.CalculateRevenue(policy, dist)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate revenue for %s: %w", policy.PolicyName(), err)
		}
		rows = append(rows, domain.RevenueComparisonRow{
			PolicyName:           result.PolicyName,
			TotalRevenue:         result.TotalRevenue,
			AverageEffectiveRate: result.AverageEffectiveRate,
			RevenuePerCapita:     result.RevenuePerCapita,
			TotalPopulation:      result.TotalPopulation,
			TotalIncome:          result.TotalIncome,
		})
	}
	return rows, nil
}

// SweepPoint is one row of a single-parameter revenue sweep.
type SweepPoint struct {
	Parameter            string          `json:"parameter"`
	Value                decimal.Decimal `json:"value"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	AverageEffectiveRate decimal.Decimal `json:"averageEffectiveRate"`
	RevenuePerCapita     decimal.Decimal `json:"revenuePerCapita"`
}

// SensitivitySweep recomputes the revenue metrics for each candidate
// parameter value. Only rate-parameterized policies support
// substitution; for anything else the base policy is evaluated
// unchanged at every point.
func (rc *RevenueCalculator) SensitivitySweep(policy domain.TaxPolicy, dist *domain.IncomeDistribution, paramName string, values []decimal.Decimal) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(values))
	for _, value := range values {
		candidate := policy
		if rp, ok := policy.(domain.RateParameterized); ok && paramName == "rate" {
			modified, err := rp.WithRate(value)
			if err != nil {
				return nil, fmt.Errorf("failed to substitute rate %s: %w", value.String(), err)
			}
			candidate = modified
		}

		result, err := rc.CalculateRevenue(candidate, dist)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{
			Parameter:            paramName,
			Value:                value,
			TotalRevenue:         result.TotalRevenue,
			AverageEffectiveRate: result.AverageEffectiveRate,
			RevenuePerCapita:     result.RevenuePerCapita,
		})
	}
	return points, nil
}
