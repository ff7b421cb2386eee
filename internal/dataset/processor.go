package dataset

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Processor validates, cleans and summarizes collected datasets.
type Processor struct{}

// NewProcessor creates a new processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Validate checks required fields and value ranges: country and code
// present, rates and revenue shares within [0,100].
func (p *Processor) Validate(ds *Dataset) error {
	for i, r := range ds.Revenue {
		if r.Country == "" || r.Code == "" {
			return fmt.Errorf("revenue record %d: country and code are required", i)
		}
		if !withinPercent(r.TotalTaxRevenue) {
			return fmt.Errorf("revenue record %d (%s %d): total tax revenue %s out of [0,100]", i, r.Code, r.Year, r.TotalTaxRevenue.String())
		}
	}
	for i, r := range ds.Rates {
		if r.Country == "" || r.Code == "" {
			return fmt.Errorf("rate record %d: country and code are required", i)
		}
		for _, check := range []struct {
			name  string
			value decimal.Decimal
		}{
			{"top personal rate", r.TopPersonalRate},
			{"corporate rate", r.CorporateRate},
			{"vat rate", r.VATRate},
		} {
			if !withinPercent(check.value) {
				return fmt.Errorf("rate record %d (%s %d): %s %s out of [0,100]", i, r.Code, r.Year, check.name, check.value.String())
			}
		}
	}
	for i, r := range ds.Structures {
		if r.Country == "" || r.Code == "" {
			return fmt.Errorf("structure record %d: country and code are required", i)
		}
	}
	return nil
}

func withinPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// Clean returns a cleaned copy of the dataset: exact duplicates
// dropped, records sorted by country then year, and numeric outliers
// clipped to the 1.5 IQR bounds of their column.
func (p *Processor) Clean(ds *Dataset) *Dataset {
	cleaned := &Dataset{
		Revenue:    dedupeRevenue(ds.Revenue),
		Rates:      dedupeRates(ds.Rates),
		Structures: dedupeStructures(ds.Structures),
	}

	sort.SliceStable(cleaned.Revenue, func(i, j int) bool {
		if cleaned.Revenue[i].Country != cleaned.Revenue[j].Country {
			return cleaned.Revenue[i].Country < cleaned.Revenue[j].Country
		}
		return cleaned.Revenue[i].Year < cleaned.Revenue[j].Year
	})
	sort.SliceStable(cleaned.Rates, func(i, j int) bool {
		if cleaned.Rates[i].Country != cleaned.Rates[j].Country {
			return cleaned.Rates[i].Country < cleaned.Rates[j].Country
		}
		return cleaned.Rates[i].Year < cleaned.Rates[j].Year
	})
	sort.SliceStable(cleaned.Structures, func(i, j int) bool {
		if cleaned.Structures[i].Country != cleaned.Structures[j].Country {
			return cleaned.Structures[i].Country < cleaned.Structures[j].Country
		}
		return cleaned.Structures[i].Year < cleaned.Structures[j].Year
	})

	clipColumn(cleaned.Revenue, func(r *RevenueRecord) *decimal.Decimal { return &r.TotalTaxRevenue })
	clipColumn(cleaned.Revenue, func(r *RevenueRecord) *decimal.Decimal { return &r.PersonalIncomeTax })
	clipColumn(cleaned.Revenue, func(r *RevenueRecord) *decimal.Decimal { return &r.CorporateIncomeTax })
	clipColumn(cleaned.Rates, func(r *RateRecord) *decimal.Decimal { return &r.TopPersonalRate })
	clipColumn(cleaned.Rates, func(r *RateRecord) *decimal.Decimal { return &r.CorporateRate })
	clipColumn(cleaned.Rates, func(r *RateRecord) *decimal.Decimal { return &r.VATRate })

	return cleaned
}

// Dedupe keys are string signatures: decimal holds a pointer, so
// struct equality would miss value-equal records.

func dedupeRevenue(records []RevenueRecord) []RevenueRecord {
	seen := make(map[string]bool, len(records))
	out := make([]RevenueRecord, 0, len(records))
	for _, r := range records {
		k := fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%s|%s", r.Code, r.Year,
			r.TotalTaxRevenue, r.PersonalIncomeTax, r.CorporateIncomeTax,
			r.SocialContributions, r.ConsumptionTax, r.PropertyTax, r.OtherTaxes)
		if !seen[k] {
			seen[k] = true
			out = append(out, r)
		}
	}
	return out
}

func dedupeRates(records []RateRecord) []RateRecord {
	seen := make(map[string]bool, len(records))
	out := make([]RateRecord, 0, len(records))
	for _, r := range records {
		k := fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%s|%s", r.Code, r.Year,
			r.TopPersonalRate, r.CorporateRate, r.VATRate, r.SocialSecurityRate,
			r.AverageTaxWedge, r.MarginalRateSingle, r.MarginalRateFamily)
		if !seen[k] {
			seen[k] = true
			out = append(out, r)
		}
	}
	return out
}

func dedupeStructures(records []StructureRecord) []StructureRecord {
	seen := make(map[string]bool, len(records))
	out := make([]StructureRecord, 0, len(records))
	for _, r := range records {
		flat := ""
		if r.FlatRate != nil {
			flat = r.FlatRate.String()
		}
		k := fmt.Sprintf("%s|%d|%d|%t|%s|%s|%s|%s", r.Code, r.Year,
			r.BracketCount, r.Progressive, flat,
			r.TopBracketThreshold, r.StandardDeduction, r.PersonalAllowance)
		if !seen[k] {
			seen[k] = true
			out = append(out, r)
		}
	}
	return out
}

// clipColumn clips one numeric column to [Q1-1.5*IQR, Q3+1.5*IQR].
func clipColumn[T any](records []T, field func(*T) *decimal.Decimal) {
	if len(records) < 4 {
		return
	}

	values := make([]decimal.Decimal, len(records))
	for i := range records {
		values[i] = *field(&records[i])
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })

	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3.Sub(q1)
	spread := iqr.Mul(decimal.NewFromFloat(1.5))
	lower := q1.Sub(spread)
	upper := q3.Add(spread)

	for i := range records {
		v := field(&records[i])
		if v.LessThan(lower) {
			*v = lower
		} else if v.GreaterThan(upper) {
			*v = upper
		}
	}
}

// quantile interpolates the q-th quantile over sorted values.
func quantile(sorted []decimal.Decimal, q float64) decimal.Decimal {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(decimal.NewFromFloat(frac)))
}

// Summary describes one table of a dataset.
type Summary struct {
	Table     string `json:"table"`
	Records   int    `json:"records"`
	Countries int    `json:"countries"`
	Years     int    `json:"years"`
	MinYear   int    `json:"minYear"`
	MaxYear   int    `json:"maxYear"`
}

// Summarize reports record, country and year counts per table.
func (p *Processor) Summarize(ds *Dataset) []Summary {
	summaries := make([]Summary, 0, 3)

	summarize := func(table string, n int, key func(int) (string, int)) {
		if n == 0 {
			return
		}
		countries := make(map[string]bool)
		years := make(map[int]bool)
		minYear, maxYear := 0, 0
		for i := 0; i < n; i++ {
			country, year := key(i)
			countries[country] = true
			years[year] = true
			if minYear == 0 || year < minYear {
				minYear = year
			}
			if year > maxYear {
				maxYear = year
			}
		}
		summaries = append(summaries, Summary{
			Table:     table,
			Records:   n,
			Countries: len(countries),
			Years:     len(years),
			MinYear:   minYear,
			MaxYear:   maxYear,
		})
	}

	summarize("revenue_statistics", len(ds.Revenue), func(i int) (string, int) {
		return ds.Revenue[i].Country, ds.Revenue[i].Year
	})
	summarize("tax_rates", len(ds.Rates), func(i int) (string, int) {
		return ds.Rates[i].Country, ds.Rates[i].Year
	})
	summarize("tax_structures", len(ds.Structures), func(i int) (string, int) {
		return ds.Structures[i].Country, ds.Structures[i].Year
	})

	return summaries
}
