package domain

import "github.com/shopspring/decimal"

// TaxedBand is one annotated distribution row: the band plus the
// per-row tax figures computed under a policy. Rows are owned by the
// result that carries them, never by the input distribution.
type TaxedBand struct {
	Income        decimal.Decimal `json:"income"`
	Population    decimal.Decimal `json:"population"`
	Tax           decimal.Decimal `json:"tax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
}

// QuintileCount is the number of equal-population revenue bands.
const QuintileCount = 5

// RevenueResult holds the aggregate revenue statistics of one policy
// applied to one distribution.
type RevenueResult struct {
	PolicyName           string                          `json:"policyName"`
	TotalRevenue         decimal.Decimal                 `json:"totalRevenue"`
	TotalPopulation      decimal.Decimal                 `json:"totalPopulation"`
	TotalIncome          decimal.Decimal                 `json:"totalIncome"`
	AverageEffectiveRate decimal.Decimal                 `json:"averageEffectiveRate"`
	RevenuePerCapita     decimal.Decimal                 `json:"revenuePerCapita"`
	QuintileRevenue      [QuintileCount]decimal.Decimal  `json:"quintileRevenue"`
	Detail               []TaxedBand                     `json:"detail,omitempty"`
}

// RevenueComparisonRow is one line of the side-by-side revenue table.
type RevenueComparisonRow struct {
	PolicyName           string          `json:"policyName"`
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	AverageEffectiveRate decimal.Decimal `json:"averageEffectiveRate"`
	RevenuePerCapita     decimal.Decimal `json:"revenuePerCapita"`
	TotalPopulation      decimal.Decimal `json:"totalPopulation"`
	TotalIncome          decimal.Decimal `json:"totalIncome"`
}

// GroupBurden is the burden profile of one fixed income band.
type GroupBurden struct {
	Group              string          `json:"incomeGroup"`
	IncomeRange        string          `json:"incomeRange"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalTax           decimal.Decimal `json:"totalTax"`
	Population         decimal.Decimal `json:"population"`
	AvgEffectiveRate   decimal.Decimal `json:"avgEffectiveRate"`
	TaxPerCapita       decimal.Decimal `json:"taxPerCapita"`
	IncomePerCapita    decimal.Decimal `json:"incomePerCapita"`
	ShareOfTotalIncome decimal.Decimal `json:"shareOfTotalIncome"`
	ShareOfTotalTax    decimal.Decimal `json:"shareOfTotalTax"`
}

// Progressivity classifications derived from the Kakwani index sign.
const (
	ClassProgressive  = "Progressive"
	ClassRegressive   = "Regressive"
	ClassProportional = "Proportional"
)

// ProgressivityResult carries the distributional metrics of one policy,
// with the Kakwani index as the headline figure.
type ProgressivityResult struct {
	PolicyName       string          `json:"policyName"`
	AvgEffectiveRate decimal.Decimal `json:"avgEffectiveRate"`
	TotalTax         decimal.Decimal `json:"totalTaxRevenue"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	KakwaniIndex     decimal.Decimal `json:"kakwaniIndex"`
	Classification   string          `json:"taxProgressivity"`
}
