package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tpgo/tpgo/internal/domain"
)

func testDistribution() *domain.IncomeDistribution {
	return &domain.IncomeDistribution{Bands: []domain.IncomeBand{
		{Income: decimal.NewFromInt(15000), Population: decimal.NewFromInt(300)},
		{Income: decimal.NewFromInt(35000), Population: decimal.NewFromInt(250)},
		{Income: decimal.NewFromInt(60000), Population: decimal.NewFromInt(200)},
		{Income: decimal.NewFromInt(120000), Population: decimal.NewFromInt(150)},
		{Income: decimal.NewFromInt(300000), Population: decimal.NewFromInt(100)},
	}}
}

func mustFlat(t *testing.T, rate float64) domain.TaxPolicy {
	t.Helper()
	policy, err := domain.NewFlatTax("Flat", decimal.NewFromFloat(rate))
	require.NoError(t, err)
	return policy
}

func TestCalculateRevenueFlat(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := testDistribution()

	result, err := calc.CalculateRevenue(mustFlat(t, 0.2), dist)
	require.NoError(t, err)

	expectedRevenue := dist.TotalIncome().Mul(decimal.NewFromFloat(0.2))
	assert.True(t, result.TotalRevenue.Equal(expectedRevenue), "got %s want %s", result.TotalRevenue, expectedRevenue)
	assert.True(t, result.AverageEffectiveRate.Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, result.TotalPopulation.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.RevenuePerCapita.Equal(expectedRevenue.Div(decimal.NewFromInt(1000))))
	assert.Len(t, result.Detail, len(dist.Bands))
}

func TestQuintileRevenueSumsToTotal(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := testDistribution()

	result, err := calc.CalculateRevenue(mustFlat(t, 0.25), dist)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, q := range result.QuintileRevenue {
		sum = sum.Add(q)
	}
	assert.True(t, sum.Equal(result.TotalRevenue), "quintiles sum %s, total %s", sum, result.TotalRevenue)

	// flat tax over an ascending distribution concentrates revenue in
	// the top quintile
	assert.True(t, result.QuintileRevenue[4].GreaterThan(result.QuintileRevenue[0]))
}

func TestCalculateRevenueZeroPopulation(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := &domain.IncomeDistribution{Bands: []domain.IncomeBand{
		{Income: decimal.NewFromInt(50000), Population: decimal.Zero},
	}}

	result, err := calc.CalculateRevenue(mustFlat(t, 0.3), dist)
	require.NoError(t, err)
	assert.True(t, result.TotalRevenue.Equal(decimal.Zero))
	assert.True(t, result.AverageEffectiveRate.Equal(decimal.Zero))
	assert.True(t, result.RevenuePerCapita.Equal(decimal.Zero))
}

func TestCalculateRevenueInvalidDistribution(t *testing.T) {
	calc := NewRevenueCalculator()
	_, err := calc.CalculateRevenue(mustFlat(t, 0.2), &domain.IncomeDistribution{})
	assert.Error(t, err)
}

func TestComparePoliciesKeepsOrder(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := testDistribution()

	low, err := domain.NewFlatTax("Low", decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	high, err := domain.NewFlatTax("High", decimal.NewFromFloat(0.4))
	require.NoError(t, err)

	rows, err := calc.ComparePolicies([]domain.TaxPolicy{high, low}, dist)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "High", rows[0].PolicyName)
	assert.Equal(t, "Low", rows[1].PolicyName)
	assert.True(t, rows[0].TotalRevenue.GreaterThan(rows[1].TotalRevenue))
}

func TestSensitivitySweepRate(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := testDistribution()

	values := []decimal.Decimal{
		decimal.NewFromFloat(0.1),
		decimal.NewFromFloat(0.2),
		decimal.NewFromFloat(0.3),
	}
	points, err := calc.SensitivitySweep(mustFlat(t, 0.2), dist, "rate", values)
	require.NoError(t, err)
	require.Len(t, points, 3)

	for i, point := range points {
		expected := dist.TotalIncome().Mul(values[i])
		assert.True(t, point.TotalRevenue.Equal(expected), "step %d: got %s want %s", i, point.TotalRevenue, expected)
	}
	assert.True(t, points[2].TotalRevenue.GreaterThan(points[0].TotalRevenue))
}

func TestSensitivitySweepUnsupportedParameter(t *testing.T) {
	calc := NewRevenueCalculator()
	dist := testDistribution()

	policy, err := domain.NewProgressiveTax("Prog", []domain.Bracket{
		{Min: decimal.Zero, Max: domain.NoCeiling, Rate: decimal.NewFromFloat(0.2)},
	})
	require.NoError(t, err)

	values := []decimal.Decimal{decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.5)}
	points, err := calc.SensitivitySweep(policy, dist, "bracket_width", values)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// base policy evaluated unchanged at every point
	assert.True(t, points[0].TotalRevenue.Equal(points[1].TotalRevenue))
}
