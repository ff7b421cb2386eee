package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// incomeGroup is one of the fixed bands used for burden analysis,
// matched by min <= income < max.
type incomeGroup struct {
	Min   decimal.Decimal
	Max   decimal.Decimal
	Label string
}

var incomeGroups = []incomeGroup{
	{decimal.Zero, decimal.NewFromInt(25000), "Low Income"},
	{decimal.NewFromInt(25000), decimal.NewFromInt(50000), "Lower Middle"},
	{decimal.NewFromInt(50000), decimal.NewFromInt(100000), "Middle Income"},
	{decimal.NewFromInt(100000), decimal.NewFromInt(250000), "Upper Middle"},
	{decimal.NewFromInt(250000), domain.NoCeiling, "High Income"},
}

// BurdenAnalyzer groups a distribution into fixed income bands and
// computes distributional metrics, including the Kakwani progressivity
// index.
type BurdenAnalyzer struct {
	logger Logger
}

// NewBurdenAnalyzer creates a burden analyzer with a no-op logger.
func NewBurdenAnalyzer() *BurdenAnalyzer {
	return &BurdenAnalyzer{logger: NopLogger{}}
}

// SetLogger replaces the analyzer's logger.
func (ba *BurdenAnalyzer) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ba.logger = l
}

// AnalyzeByIncomeGroup computes the burden profile of each fixed income
// band under a policy. Bands with no covered rows are omitted.
func (ba *BurdenAnalyzer) AnalyzeByIncomeGroup(dist *domain.IncomeDistribution, policy domain.TaxPolicy) ([]domain.GroupBurden, error) {
	return ba.groupBurden(dist, policy)
}

// AnalyzeIncidence computes the incidence profile across income groups.
// Methodologically identical to AnalyzeByIncomeGroup; the duplication
// mirrors the published methodology rather than a distinct algorithm.
func (ba *BurdenAnalyzer) AnalyzeIncidence(dist *domain.IncomeDistribution, policy domain.TaxPolicy) ([]domain.GroupBurden, error) {
	return ba.groupBurden(dist, policy)
}

func (ba *BurdenAnalyzer) groupBurden(dist *domain.IncomeDistribution, policy domain.TaxPolicy) ([]domain.GroupBurden, error) {
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	type taxedRow struct {
		income     decimal.Decimal
		population decimal.Decimal
		tax        decimal.Decimal
	}
	rows := make([]taxedRow, 0, len(dist.Bands))

	// Share denominators use the unweighted column sums of the
	// per-row table, not the population-weighted totals.
	columnIncomeSum := decimal.Zero
	columnTaxSum := decimal.Zero
	for _, band := range dist.Bands {
		tax := policy.CalculateTax(band.Income)
		rows = append(rows, taxedRow{income: band.Income, population: band.Population, tax: tax})
		columnIncomeSum = columnIncomeSum.Add(band.Income)
		columnTaxSum = columnTaxSum.Add(tax)
	}

	results := make([]domain.GroupBurden, 0, len(incomeGroups))
	for _, group := range incomeGroups {
		groupIncome := decimal.Zero
		groupTax := decimal.Zero
		groupPopulation := decimal.Zero
		covered := false
		for _, row := range rows {
			if row.income.GreaterThanOrEqual(group.Min) && row.income.LessThan(group.Max) {
				covered = true
				groupIncome = groupIncome.Add(row.income.Mul(row.population))
				groupTax = groupTax.Add(row.tax.Mul(row.population))
				groupPopulation = groupPopulation.Add(row.population)
			}
		}
		if !covered {
			continue
		}

		burden := domain.GroupBurden{
			Group:       group.Label,
			IncomeRange: formatIncomeRange(group),
			TotalIncome: groupIncome,
			TotalTax:    groupTax,
			Population:  groupPopulation,
		}
		if groupIncome.GreaterThan(decimal.Zero) {
			burden.AvgEffectiveRate = groupTax.Div(groupIncome)
		}
		if groupPopulation.GreaterThan(decimal.Zero) {
			burden.TaxPerCapita = groupTax.Div(groupPopulation)
			burden.IncomePerCapita = groupIncome.Div(groupPopulation)
		}
		if columnIncomeSum.GreaterThan(decimal.Zero) {
			burden.ShareOfTotalIncome = groupIncome.Div(columnIncomeSum)
		}
		if columnTaxSum.GreaterThan(decimal.Zero) {
			burden.ShareOfTotalTax = groupTax.Div(columnTaxSum)
		}
		results = append(results, burden)
	}

	return results, nil
}

func formatIncomeRange(group incomeGroup) string {
	if group.Max.Equal(domain.NoCeiling) {
		return fmt.Sprintf("$%s+", group.Min.StringFixed(0))
	}
	return fmt.Sprintf("$%s - $%s", group.Min.StringFixed(0), group.Max.StringFixed(0))
}

// Progressivity computes the Kakwani index of a policy over a
// distribution: the tax concentration coefficient minus the income Gini
// coefficient, both via the discrete Lorenz-curve approximation.
// Positive means progressive, negative regressive. When total income or
// total tax is zero the index defaults to 0 (proportional).
func (ba *BurdenAnalyzer) Progressivity(dist *domain.IncomeDistribution, policy domain.TaxPolicy) (*domain.ProgressivityResult, error) {
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	sorted := dist.SortedByIncome()

	totalPopulation := decimal.Zero
	totalIncome := decimal.Zero
	totalTax := decimal.Zero
	taxes := make([]decimal.Decimal, len(sorted))
	for i, band := range sorted {
		taxes[i] = policy.CalculateTax(band.Income)
		totalPopulation = totalPopulation.Add(band.Population)
		totalIncome = totalIncome.Add(band.Income.Mul(band.Population))
		totalTax = totalTax.Add(taxes[i].Mul(band.Population))
	}

	avgEffectiveRate := decimal.Zero
	if totalIncome.GreaterThan(decimal.Zero) {
		avgEffectiveRate = totalTax.Div(totalIncome)
	}

	kakwani := decimal.Zero
	if totalIncome.GreaterThan(decimal.Zero) && totalTax.GreaterThan(decimal.Zero) {
		concentration := lorenzCoefficient(sorted, taxes, totalTax, totalPopulation)
		gini := lorenzCoefficient(sorted, nil, totalIncome, totalPopulation)
		kakwani = concentration.Sub(gini)
	}

	classification := domain.ClassProportional
	switch {
	case kakwani.GreaterThan(decimal.Zero):
		classification = domain.ClassProgressive
	case kakwani.LessThan(decimal.Zero):
		classification = domain.ClassRegressive
	}

	ba.logger.Debugf("progressivity for %s: kakwani=%s (%s)", policy.PolicyName(),
		kakwani.StringFixed(4), classification)

	return &domain.ProgressivityResult{
		PolicyName:       policy.PolicyName(),
		AvgEffectiveRate: avgEffectiveRate,
		TotalTax:         totalTax,
		TotalIncome:      totalIncome,
		KakwaniIndex:     kakwani,
		Classification:   classification,
	}, nil
}

// lorenzCoefficient computes the discrete Lorenz-curve coefficient of a
// value series over income-sorted bands. Row i contributes
// value_i * pop_i * (cumPop_{i-1} + 0.5 * pop_i); the coefficient is
// 2*sum/(weightedTotal*totalPopulation) - 1. A nil values slice uses
// the band incomes, yielding the income Gini coefficient.
func lorenzCoefficient(sorted []domain.IncomeBand, values []decimal.Decimal, weightedTotal, totalPopulation decimal.Decimal) decimal.Decimal {
	denominator := weightedTotal.Mul(totalPopulation)
	if denominator.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	half := decimal.NewFromFloat(0.5)
	sum := decimal.Zero
	cumulative := decimal.Zero
	for i, band := range sorted {
		value := band.Income
		if values != nil {
			value = values[i]
		}
		rank := cumulative.Add(half.Mul(band.Population))
		sum = sum.Add(value.Mul(band.Population).Mul(rank))
		cumulative = cumulative.Add(band.Population)
	}

	return decimal.NewFromInt(2).Mul(sum).Div(denominator).Sub(decimal.NewFromInt(1))
}
