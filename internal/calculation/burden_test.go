package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tpgo/tpgo/internal/domain"
)

func TestAnalyzeByIncomeGroupLabels(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution() // 15k, 35k, 60k, 120k, 300k

	groups, err := analyzer.AnalyzeByIncomeGroup(dist, mustFlat(t, 0.2))
	require.NoError(t, err)
	require.Len(t, groups, 5)

	assert.Equal(t, "Low Income", groups[0].Group)
	assert.Equal(t, "Lower Middle", groups[1].Group)
	assert.Equal(t, "Middle Income", groups[2].Group)
	assert.Equal(t, "Upper Middle", groups[3].Group)
	assert.Equal(t, "High Income", groups[4].Group)

	assert.Equal(t, "$0 - $25000", groups[0].IncomeRange)
	assert.Equal(t, "$250000+", groups[4].IncomeRange)
}

func TestBurdenShareDenominators(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution()

	groups, err := analyzer.AnalyzeByIncomeGroup(dist, mustFlat(t, 0.3))
	require.NoError(t, err)
	require.Len(t, groups, 5)

	// share denominators are the unweighted column sums of the per-row
	// table, so the low-income share is (15000*300)/(sum of incomes)
	columnIncomeSum := decimal.NewFromInt(15000 + 35000 + 60000 + 120000 + 300000)
	expectedIncomeShare := decimal.NewFromInt(15000).Mul(decimal.NewFromInt(300)).Div(columnIncomeSum)
	assert.True(t, groups[0].ShareOfTotalIncome.Equal(expectedIncomeShare),
		"got %s want %s", groups[0].ShareOfTotalIncome, expectedIncomeShare)

	// a flat rate cancels out of the tax share, leaving the income share
	diff := groups[0].ShareOfTotalTax.Sub(groups[0].ShareOfTotalIncome).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-9)), "tax share %s income share %s",
		groups[0].ShareOfTotalTax, groups[0].ShareOfTotalIncome)
}

func TestEmptyGroupsOmitted(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := &domain.IncomeDistribution{Bands: []domain.IncomeBand{
		{Income: decimal.NewFromInt(10000), Population: decimal.NewFromInt(50)},
		{Income: decimal.NewFromInt(20000), Population: decimal.NewFromInt(30)},
	}}

	groups, err := analyzer.AnalyzeByIncomeGroup(dist, mustFlat(t, 0.1))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Low Income", groups[0].Group)
	assert.True(t, groups[0].Population.Equal(decimal.NewFromInt(80)))
}

func TestIncidenceMatchesBurden(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution()
	policy := mustFlat(t, 0.25)

	burden, err := analyzer.AnalyzeByIncomeGroup(dist, policy)
	require.NoError(t, err)
	incidence, err := analyzer.AnalyzeIncidence(dist, policy)
	require.NoError(t, err)

	assert.Equal(t, burden, incidence)
}

func TestProgressivityFlatIsProportional(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution()

	result, err := analyzer.Progressivity(dist, mustFlat(t, 0.2))
	require.NoError(t, err)

	// a flat tax is proportional: concentration equals the income Gini
	tolerance := decimal.NewFromFloat(1e-9)
	assert.True(t, result.KakwaniIndex.Abs().LessThan(tolerance), "kakwani %s", result.KakwaniIndex)
	assert.True(t, result.AvgEffectiveRate.Equal(decimal.NewFromFloat(0.2)))
}

func TestProgressivityClassification(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution()

	progressive, err := domain.NewProgressiveTax("Prog", []domain.Bracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.1)},
		{Min: decimal.NewFromInt(50000), Max: domain.NoCeiling, Rate: decimal.NewFromFloat(0.4)},
	})
	require.NoError(t, err)

	regressive, err := domain.NewRegressiveTax("Reg", []domain.Bracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.4)},
		{Min: decimal.NewFromInt(50000), Max: domain.NoCeiling, Rate: decimal.NewFromFloat(0.1)},
	})
	require.NoError(t, err)

	progResult, err := analyzer.Progressivity(dist, progressive)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassProgressive, progResult.Classification)
	assert.True(t, progResult.KakwaniIndex.GreaterThan(decimal.Zero))

	regResult, err := analyzer.Progressivity(dist, regressive)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassRegressive, regResult.Classification)
	assert.True(t, regResult.KakwaniIndex.LessThan(decimal.Zero))
}

func TestProgressivityZeroTaxDefaultsProportional(t *testing.T) {
	analyzer := NewBurdenAnalyzer()
	dist := testDistribution()

	result, err := analyzer.Progressivity(dist, mustFlat(t, 0))
	require.NoError(t, err)
	assert.True(t, result.KakwaniIndex.Equal(decimal.Zero))
	assert.Equal(t, domain.ClassProportional, result.Classification)
}
