package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IncomeBand is one row of an income distribution: an income level and
// the population weight at that level.
type IncomeBand struct {
	Income     decimal.Decimal `json:"income" yaml:"income"`
	Population decimal.Decimal `json:"population" yaml:"population"`
}

// IncomeDistribution is an ordered collection of income bands. Bands
// need not be sorted; algorithms that depend on cumulative ordering
// sort a private copy first. Downstream computations never mutate a
// caller-supplied distribution.
type IncomeDistribution struct {
	Bands []IncomeBand `json:"bands" yaml:"bands"`
}

// Validate checks the calculator's input contract: non-empty, no
// negative incomes, no negative population weights.
func (d *IncomeDistribution) Validate() error {
	if len(d.Bands) == 0 {
		return &SchemaError{Reason: "distribution has no bands"}
	}
	for _, b := range d.Bands {
		if b.Income.IsNegative() {
			return &SchemaError{Field: "income", Reason: "income level is negative"}
		}
		if b.Population.IsNegative() {
			return &SchemaError{Field: "population", Reason: "population weight is negative"}
		}
	}
	return nil
}

// TotalPopulation is the sum of all population weights.
func (d *IncomeDistribution) TotalPopulation() decimal.Decimal {
	total := decimal.Zero
	for _, b := range d.Bands {
		total = total.Add(b.Population)
	}
	return total
}

// TotalIncome is the population-weighted income sum.
func (d *IncomeDistribution) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, b := range d.Bands {
		total = total.Add(b.Income.Mul(b.Population))
	}
	return total
}

// SortedByIncome returns a fresh copy of the bands ordered by ascending
// income. The receiver is never reordered.
func (d *IncomeDistribution) SortedByIncome() []IncomeBand {
	sorted := make([]IncomeBand, len(d.Bands))
	copy(sorted, d.Bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Income.LessThan(sorted[j].Income)
	})
	return sorted
}
