package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usStyleBrackets() []Bracket {
	return []Bracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.10)},
		{Min: decimal.NewFromInt(10000), Max: decimal.NewFromInt(40000), Rate: decimal.NewFromFloat(0.15)},
		{Min: decimal.NewFromInt(40000), Max: decimal.NewFromInt(80000), Rate: decimal.NewFromFloat(0.25)},
		{Min: decimal.NewFromInt(80000), Max: decimal.NewFromInt(160000), Rate: decimal.NewFromFloat(0.30)},
		{Min: decimal.NewFromInt(160000), Max: NoCeiling, Rate: decimal.NewFromFloat(0.35)},
	}
}

func TestProgressiveTaxCalculation(t *testing.T) {
	policy, err := NewProgressiveTax("US Progressive", usStyleBrackets())
	require.NoError(t, err)

	tests := []struct {
		name     string
		income   decimal.Decimal
		expected decimal.Decimal
	}{
		{"Zero income", decimal.Zero, decimal.Zero},
		{"Negative income", decimal.NewFromInt(-5000), decimal.Zero},
		{"Within first bracket", decimal.NewFromInt(5000), decimal.NewFromInt(500)},
		{"First bracket boundary", decimal.NewFromInt(10000), decimal.NewFromInt(1000)},
		{"Spanning two brackets", decimal.NewFromInt(25000), decimal.NewFromInt(3250)},
		{"Spanning three brackets", decimal.NewFromInt(80000), decimal.NewFromInt(15500)},
		// 1000 + 4500 + 10000 + 24000 + 40000*0.35
		{"Top bracket", decimal.NewFromInt(200000), decimal.NewFromInt(53500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := policy.CalculateTax(tt.income)
			assert.True(t, tax.Equal(tt.expected), "expected %s, got %s", tt.expected, tax)
		})
	}
}

func TestProgressiveTaxBracketOrderIndependence(t *testing.T) {
	brackets := usStyleBrackets()
	reversed := make([]Bracket, len(brackets))
	for i, b := range brackets {
		reversed[len(brackets)-1-i] = b
	}

	a, err := NewProgressiveTax("ordered", brackets)
	require.NoError(t, err)
	b, err := NewProgressiveTax("reversed", reversed)
	require.NoError(t, err)

	for _, income := range []int64{0, 9999, 40000, 123456, 500000} {
		d := decimal.NewFromInt(income)
		assert.True(t, a.CalculateTax(d).Equal(b.CalculateTax(d)), "income %d", income)
		assert.True(t, a.MarginalRate(d).Equal(b.MarginalRate(d)), "income %d", income)
	}
}

func TestProgressiveMarginalRateMonotonic(t *testing.T) {
	policy, err := NewProgressiveTax("", usStyleBrackets())
	require.NoError(t, err)

	prev := decimal.Zero
	for _, income := range []int64{1, 5000, 15000, 50000, 100000, 200000, 1000000} {
		rate := policy.MarginalRate(decimal.NewFromInt(income))
		assert.True(t, rate.GreaterThanOrEqual(prev), "marginal rate fell at income %d", income)
		prev = rate
	}
}

func TestBracketValidation(t *testing.T) {
	tests := []struct {
		name     string
		brackets []Bracket
	}{
		{"No brackets", nil},
		{"Negative min", []Bracket{{Min: decimal.NewFromInt(-1), Max: decimal.NewFromInt(10), Rate: decimal.NewFromFloat(0.1)}}},
		{"Max below min", []Bracket{{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(50), Rate: decimal.NewFromFloat(0.1)}}},
		{"Negative rate", []Bracket{{Min: decimal.Zero, Max: decimal.NewFromInt(100), Rate: decimal.NewFromFloat(-0.1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgressiveTax("bad", tt.brackets)
			require.Error(t, err)
			var bracketErr *BracketError
			assert.True(t, errors.As(err, &bracketErr))
		})
	}
}

func TestFlatTax(t *testing.T) {
	policy, err := NewFlatTax("Flat 25", decimal.NewFromFloat(0.25))
	require.NoError(t, err)

	assert.True(t, policy.CalculateTax(decimal.NewFromInt(80000)).Equal(decimal.NewFromInt(20000)))
	assert.True(t, policy.CalculateTax(decimal.NewFromInt(-100)).Equal(decimal.Zero))
	assert.True(t, policy.MarginalRate(decimal.Zero).Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, policy.MarginalRate(decimal.NewFromInt(1000000)).Equal(decimal.NewFromFloat(0.25)))
	assert.Equal(t, KindFlat, policy.Kind())
}

func TestFlatTaxRateBounds(t *testing.T) {
	_, err := NewFlatTax("too high", decimal.NewFromFloat(1.5))
	assert.Error(t, err)

	_, err = NewFlatTax("negative", decimal.NewFromFloat(-0.1))
	assert.Error(t, err)

	zero, err := NewFlatTax("zero", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.CalculateTax(decimal.NewFromInt(50000)).Equal(decimal.Zero))
}

func TestFlatTaxWithRate(t *testing.T) {
	policy, err := NewFlatTax("Flat", decimal.NewFromFloat(0.2))
	require.NoError(t, err)

	modified, err := policy.WithRate(decimal.NewFromFloat(0.3))
	require.NoError(t, err)
	assert.True(t, modified.CalculateTax(decimal.NewFromInt(1000)).Equal(decimal.NewFromInt(300)))
	// original unchanged
	assert.True(t, policy.Rate().Equal(decimal.NewFromFloat(0.2)))

	_, err = policy.WithRate(decimal.NewFromInt(2))
	assert.Error(t, err)
}

func TestRegressiveTax(t *testing.T) {
	brackets := []Bracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.30)},
		{Min: decimal.NewFromInt(50000), Max: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.25)},
		{Min: decimal.NewFromInt(100000), Max: NoCeiling, Rate: decimal.NewFromFloat(0.20)},
	}
	policy, err := NewRegressiveTax("Regressive", brackets)
	require.NoError(t, err)

	// 30% of 50000 + 25% of 25000
	tax := policy.CalculateTax(decimal.NewFromInt(75000))
	assert.True(t, tax.Equal(decimal.NewFromInt(21250)), "got %s", tax)

	// above every bounded bracket the marginal rate is the lowest rate
	assert.True(t, policy.MarginalRate(decimal.NewFromInt(500000)).Equal(decimal.NewFromFloat(0.20)))
}

func TestRegressiveTaxRejectsIncreasingRates(t *testing.T) {
	brackets := []Bracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.10)},
		{Min: decimal.NewFromInt(50000), Max: NoCeiling, Rate: decimal.NewFromFloat(0.20)},
	}
	_, err := NewRegressiveTax("not regressive", brackets)
	require.Error(t, err)
	var bracketErr *BracketError
	assert.True(t, errors.As(err, &bracketErr))
}

func TestCustomTax(t *testing.T) {
	half := func(income decimal.Decimal) decimal.Decimal {
		return income.Mul(decimal.NewFromFloat(0.5))
	}
	flat := func(decimal.Decimal) decimal.Decimal {
		return decimal.NewFromFloat(0.5)
	}

	policy, err := NewCustomTax("Half", half, flat)
	require.NoError(t, err)
	assert.True(t, policy.CalculateTax(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(50)))
	assert.True(t, policy.CalculateTax(decimal.NewFromInt(-100)).Equal(decimal.Zero))

	_, err = NewCustomTax("missing", nil, flat)
	assert.Error(t, err)
	_, err = NewCustomTax("missing", half, nil)
	assert.Error(t, err)
}

func TestEffectiveRate(t *testing.T) {
	policy, err := NewFlatTax("Flat", decimal.NewFromFloat(0.2))
	require.NoError(t, err)

	assert.True(t, EffectiveRate(policy, decimal.NewFromInt(1000)).Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, EffectiveRate(policy, decimal.Zero).Equal(decimal.Zero))
	assert.True(t, EffectiveRate(policy, decimal.NewFromInt(-10)).Equal(decimal.Zero))
}

func TestWithScaledRates(t *testing.T) {
	policy, err := NewProgressiveTax("US Progressive", usStyleBrackets())
	require.NoError(t, err)

	doubled, err := policy.WithScaledRates(decimal.NewFromInt(2))
	require.NoError(t, err)

	income := decimal.NewFromInt(80000)
	assert.True(t, doubled.CalculateTax(income).Equal(policy.CalculateTax(income).Mul(decimal.NewFromInt(2))))

	zeroed, err := policy.WithScaledRates(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zeroed.CalculateTax(income).Equal(decimal.Zero))

	_, err = policy.WithScaledRates(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
