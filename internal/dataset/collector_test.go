package dataset

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCountries = []string{"USA", "DEU", "JPN"}
	testYears     = []int{2020, 2021}
)

func TestRevenueStatisticsDeterministic(t *testing.T) {
	a := NewCollector(42).RevenueStatistics(testCountries, testYears)
	b := NewCollector(42).RevenueStatistics(testCountries, testYears)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Code, b[i].Code)
		assert.True(t, a[i].TotalTaxRevenue.Equal(b[i].TotalTaxRevenue), "record %d", i)
	}

	c := NewCollector(7).RevenueStatistics(testCountries, testYears)
	different := false
	for i := range a {
		if !a[i].TotalTaxRevenue.Equal(c[i].TotalTaxRevenue) {
			different = true
			break
		}
	}
	assert.True(t, different, "different seeds should produce different values")
}

func TestCollectorValueRanges(t *testing.T) {
	collector := NewCollector(1)

	for _, r := range collector.RevenueStatistics(testCountries, testYears) {
		assert.True(t, r.TotalTaxRevenue.GreaterThanOrEqual(decimal.NewFromInt(20)), "%s %d revenue %s", r.Code, r.Year, r.TotalTaxRevenue)
		assert.True(t, r.TotalTaxRevenue.LessThanOrEqual(decimal.NewFromInt(50)), "%s %d revenue %s", r.Code, r.Year, r.TotalTaxRevenue)
	}

	for _, r := range collector.TaxRates(testCountries, testYears) {
		assert.True(t, r.TopPersonalRate.GreaterThanOrEqual(decimal.NewFromInt(30)))
		assert.True(t, r.TopPersonalRate.LessThanOrEqual(decimal.NewFromInt(60)))
		assert.True(t, r.CorporateRate.GreaterThanOrEqual(decimal.NewFromInt(15)))
		assert.True(t, r.CorporateRate.LessThanOrEqual(decimal.NewFromInt(35)))
		assert.True(t, r.VATRate.GreaterThanOrEqual(decimal.NewFromInt(15)))
		assert.True(t, r.VATRate.LessThanOrEqual(decimal.NewFromInt(25)))
	}

	for _, r := range collector.TaxStructures(testCountries, testYears) {
		assert.GreaterOrEqual(t, r.BracketCount, 3)
		assert.LessOrEqual(t, r.BracketCount, 7)
		if r.FlatRate != nil {
			assert.True(t, r.FlatRate.GreaterThanOrEqual(decimal.NewFromInt(15)))
			assert.True(t, r.FlatRate.LessThanOrEqual(decimal.NewFromInt(25)))
		}
	}
}

func TestCollectorOrdersByCountryCode(t *testing.T) {
	records := NewCollector(1).RevenueStatistics([]string{"USA", "AUS", "DEU"}, []int{2021})
	require.Len(t, records, 3)
	assert.Equal(t, "AUS", records[0].Code)
	assert.Equal(t, "DEU", records[1].Code)
	assert.Equal(t, "USA", records[2].Code)
	assert.Equal(t, "Australia", records[0].Country)
}

func TestCollectorUnknownCodeFallsBackToCode(t *testing.T) {
	records := NewCollector(1).RevenueStatistics([]string{"XXX"}, []int{2021})
	require.Len(t, records, 1)
	assert.Equal(t, "XXX", records[0].Country)
}

func TestCollectorDefaultsToAllCountries(t *testing.T) {
	records := NewCollector(1).RevenueStatistics(nil, []int{2021})
	assert.Len(t, records, len(DefaultCountries()))
}

func TestComprehensiveMerge(t *testing.T) {
	ds := NewCollector(5).Comprehensive(testCountries, testYears)

	assert.Len(t, ds.Revenue, len(testCountries)*len(testYears))
	assert.Len(t, ds.Rates, len(testCountries)*len(testYears))
	assert.Len(t, ds.Structures, len(testCountries)*len(testYears))

	// one merged record per (code, year), each carrying all three sections
	require.Len(t, ds.Analysis, len(testCountries)*len(testYears))
	for _, rec := range ds.Analysis {
		require.NotNil(t, rec.Revenue, "%s %d", rec.Code, rec.Year)
		require.NotNil(t, rec.Rates, "%s %d", rec.Code, rec.Year)
		require.NotNil(t, rec.Structure, "%s %d", rec.Code, rec.Year)
		assert.Equal(t, rec.Code, rec.Revenue.Code)
		assert.Equal(t, rec.Year, rec.Rates.Year)
	}
}
