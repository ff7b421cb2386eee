package dataset

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
)

// RevenueRecord is one country-year observation of tax revenue
// composition, expressed as percentages of GDP.
type RevenueRecord struct {
	Country             string          `json:"country"`
	Code                string          `json:"countryCode"`
	Year                int             `json:"year"`
	TotalTaxRevenue     decimal.Decimal `json:"totalTaxRevenue"`
	PersonalIncomeTax   decimal.Decimal `json:"personalIncomeTax"`
	CorporateIncomeTax  decimal.Decimal `json:"corporateIncomeTax"`
	SocialContributions decimal.Decimal `json:"socialSecurityContributions"`
	ConsumptionTax      decimal.Decimal `json:"consumptionTax"`
	PropertyTax         decimal.Decimal `json:"propertyTax"`
	OtherTaxes          decimal.Decimal `json:"otherTaxes"`
}

// RateRecord is one country-year observation of statutory tax rates.
type RateRecord struct {
	Country            string          `json:"country"`
	Code               string          `json:"countryCode"`
	Year               int             `json:"year"`
	TopPersonalRate    decimal.Decimal `json:"topPersonalRate"`
	CorporateRate      decimal.Decimal `json:"corporateRate"`
	VATRate            decimal.Decimal `json:"vatRate"`
	SocialSecurityRate decimal.Decimal `json:"socialSecurityRate"`
	AverageTaxWedge    decimal.Decimal `json:"averageTaxWedge"`
	MarginalRateSingle decimal.Decimal `json:"marginalTaxRateSingle"`
	MarginalRateFamily decimal.Decimal `json:"marginalTaxRateFamily"`
}

// StructureRecord is one country-year observation of tax system
// structure. FlatRate is nil for systems without a flat component.
type StructureRecord struct {
	Country             string           `json:"country"`
	Code                string           `json:"countryCode"`
	Year                int              `json:"year"`
	BracketCount        int              `json:"taxBracketsCount"`
	Progressive         bool             `json:"progressiveTaxSystem"`
	FlatRate            *decimal.Decimal `json:"flatTaxRate,omitempty"`
	TopBracketThreshold decimal.Decimal  `json:"topBracketThreshold"`
	StandardDeduction   decimal.Decimal  `json:"standardDeduction"`
	PersonalAllowance   decimal.Decimal  `json:"personalAllowance"`
}

// AnalysisRecord merges the three per-country-year observations on
// (code, year). Sections missing from a source dataset stay nil.
type AnalysisRecord struct {
	Country   string           `json:"country"`
	Code      string           `json:"countryCode"`
	Year      int              `json:"year"`
	Revenue   *RevenueRecord   `json:"revenue,omitempty"`
	Rates     *RateRecord      `json:"rates,omitempty"`
	Structure *StructureRecord `json:"structure,omitempty"`
}

// Dataset bundles every collected table.
type Dataset struct {
	Revenue    []RevenueRecord   `json:"revenueStatistics"`
	Rates      []RateRecord      `json:"taxRates"`
	Structures []StructureRecord `json:"taxStructures"`
	Analysis   []AnalysisRecord  `json:"combined,omitempty"`
}

// DefaultCountries returns the OECD member and partner code-to-name
// map used when no country filter is given.
func DefaultCountries() map[string]string {
	return map[string]string{
		"AUS": "Australia", "AUT": "Austria", "BEL": "Belgium", "CAN": "Canada",
		"CHL": "Chile", "COL": "Colombia", "CRI": "Costa Rica", "CZE": "Czech Republic",
		"DNK": "Denmark", "EST": "Estonia", "FIN": "Finland", "FRA": "France",
		"DEU": "Germany", "GRC": "Greece", "HUN": "Hungary", "ISL": "Iceland",
		"IRL": "Ireland", "ISR": "Israel", "ITA": "Italy", "JPN": "Japan",
		"KOR": "Korea", "LVA": "Latvia", "LTU": "Lithuania", "LUX": "Luxembourg",
		"MEX": "Mexico", "NLD": "Netherlands", "NZL": "New Zealand", "NOR": "Norway",
		"POL": "Poland", "PRT": "Portugal", "SVK": "Slovak Republic", "SVN": "Slovenia",
		"ESP": "Spain", "SWE": "Sweden", "CHE": "Switzerland", "TUR": "Turkey",
		"GBR": "United Kingdom", "USA": "United States",
	}
}

// Collector synthesizes plausible country-level tax records from a
// seeded RNG. No network I/O happens anywhere; the record shapes and
// value ranges mirror the public OECD statistics they stand in for.
type Collector struct {
	Seed      int64
	Countries map[string]string
}

// NewCollector creates a collector over the default country set.
func NewCollector(seed int64) *Collector {
	return &Collector{Seed: seed, Countries: DefaultCountries()}
}

func (c *Collector) countryCodes(countries []string) []string {
	if len(countries) == 0 {
		countries = make([]string, 0, len(c.Countries))
		for code := range c.Countries {
			countries = append(countries, code)
		}
	}
	sort.Strings(countries)
	return countries
}

func (c *Collector) countryName(code string) string {
	if name, ok := c.Countries[code]; ok {
		return name
	}
	return code
}

func uniform(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
}

// RevenueStatistics synthesizes revenue composition records for the
// given countries and years. Total tax revenue falls in 20-50 %GDP.
func (c *Collector) RevenueStatistics(countries []string, years []int) []RevenueRecord {
	rng := rand.New(rand.NewSource(c.Seed))
	records := make([]RevenueRecord, 0, len(countries)*len(years))
	for _, code := range c.countryCodes(countries) {
		for _, year := range years {
			records = append(records, RevenueRecord{
				Country:             c.countryName(code),
				Code:                code,
				Year:                year,
				TotalTaxRevenue:     uniform(rng, 20, 50),
				PersonalIncomeTax:   uniform(rng, 5, 15),
				CorporateIncomeTax:  uniform(rng, 2, 8),
				SocialContributions: uniform(rng, 5, 15),
				ConsumptionTax:      uniform(rng, 5, 15),
				PropertyTax:         uniform(rng, 1, 5),
				OtherTaxes:          uniform(rng, 1, 5),
			})
		}
	}
	return records
}

// TaxRates synthesizes statutory rate records. Top personal rates fall
// in 30-60%, corporate in 15-35%, VAT in 15-25%.
func (c *Collector) TaxRates(countries []string, years []int) []RateRecord {
	rng := rand.New(rand.NewSource(c.Seed + 1))
	records := make([]RateRecord, 0, len(countries)*len(years))
	for _, code := range c.countryCodes(countries) {
		for _, year := range years {
			records = append(records, RateRecord{
				Country:            c.countryName(code),
				Code:               code,
				Year:               year,
				TopPersonalRate:    uniform(rng, 30, 60),
				CorporateRate:      uniform(rng, 15, 35),
				VATRate:            uniform(rng, 15, 25),
				SocialSecurityRate: uniform(rng, 10, 25),
				AverageTaxWedge:    uniform(rng, 20, 40),
				MarginalRateSingle: uniform(rng, 25, 55),
				MarginalRateFamily: uniform(rng, 20, 50),
			})
		}
	}
	return records
}

// TaxStructures synthesizes system structure records. Bracket counts
// fall in 3-7; roughly 30% of records carry a flat rate component.
func (c *Collector) TaxStructures(countries []string, years []int) []StructureRecord {
	rng := rand.New(rand.NewSource(c.Seed + 2))
	records := make([]StructureRecord, 0, len(countries)*len(years))
	for _, code := range c.countryCodes(countries) {
		for _, year := range years {
			rec := StructureRecord{
				Country:             c.countryName(code),
				Code:                code,
				Year:                year,
				BracketCount:        3 + rng.Intn(5),
				Progressive:         rng.Intn(2) == 0,
				TopBracketThreshold: uniform(rng, 50000, 200000),
				StandardDeduction:   uniform(rng, 5000, 15000),
				PersonalAllowance:   uniform(rng, 8000, 20000),
			}
			if rng.Float64() > 0.7 {
				flat := uniform(rng, 15, 25)
				rec.FlatRate = &flat
			}
			records = append(records, rec)
		}
	}
	return records
}

// Comprehensive collects all three tables and merges them into
// AnalysisRecords keyed on (code, year).
func (c *Collector) Comprehensive(countries []string, years []int) *Dataset {
	ds := &Dataset{
		Revenue:    c.RevenueStatistics(countries, years),
		Rates:      c.TaxRates(countries, years),
		Structures: c.TaxStructures(countries, years),
	}

	type key struct {
		code string
		year int
	}
	merged := make(map[key]*AnalysisRecord)
	order := make([]key, 0, len(ds.Revenue))

	lookup := func(k key, country string) *AnalysisRecord {
		if rec, ok := merged[k]; ok {
			return rec
		}
		rec := &AnalysisRecord{Country: country, Code: k.code, Year: k.year}
		merged[k] = rec
		order = append(order, k)
		return rec
	}

	for i := range ds.Revenue {
		r := &ds.Revenue[i]
		lookup(key{r.Code, r.Year}, r.Country).Revenue = r
	}
	for i := range ds.Rates {
		r := &ds.Rates[i]
		lookup(key{r.Code, r.Year}, r.Country).Rates = r
	}
	for i := range ds.Structures {
		r := &ds.Structures[i]
		lookup(key{r.Code, r.Year}, r.Country).Structure = r
	}

	ds.Analysis = make([]AnalysisRecord, 0, len(order))
	for _, k := range order {
		ds.Analysis = append(ds.Analysis, *merged[k])
	}
	return ds
}
