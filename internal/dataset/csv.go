package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/domain"
)

// SaveCSV writes each dataset table to its own CSV file under dir,
// creating the directory if needed. Returns the written file paths.
func SaveCSV(dir string, ds *Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var written []string

	if len(ds.Revenue) > 0 {
		path := filepath.Join(dir, "revenue_statistics.csv")
		rows := [][]string{{"country", "country_code", "year", "total_tax_revenue",
			"personal_income_tax", "corporate_income_tax", "social_security_contributions",
			"consumption_tax", "property_tax", "other_taxes"}}
		for _, r := range ds.Revenue {
			rows = append(rows, []string{r.Country, r.Code, fmt.Sprintf("%d", r.Year),
				r.TotalTaxRevenue.String(), r.PersonalIncomeTax.String(),
				r.CorporateIncomeTax.String(), r.SocialContributions.String(),
				r.ConsumptionTax.String(), r.PropertyTax.String(), r.OtherTaxes.String()})
		}
		if err := writeCSV(path, rows); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if len(ds.Rates) > 0 {
		path := filepath.Join(dir, "tax_rates.csv")
		rows := [][]string{{"country", "country_code", "year", "top_personal_rate",
			"corporate_rate", "vat_rate", "social_security_rate", "average_tax_wedge",
			"marginal_tax_rate_single", "marginal_tax_rate_family"}}
		for _, r := range ds.Rates {
			rows = append(rows, []string{r.Country, r.Code, fmt.Sprintf("%d", r.Year),
				r.TopPersonalRate.String(), r.CorporateRate.String(), r.VATRate.String(),
				r.SocialSecurityRate.String(), r.AverageTaxWedge.String(),
				r.MarginalRateSingle.String(), r.MarginalRateFamily.String()})
		}
		if err := writeCSV(path, rows); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if len(ds.Structures) > 0 {
		path := filepath.Join(dir, "tax_structures.csv")
		rows := [][]string{{"country", "country_code", "year", "tax_brackets_count",
			"progressive_tax_system", "flat_tax_rate", "top_bracket_threshold",
			"standard_deduction", "personal_allowance"}}
		for _, r := range ds.Structures {
			flat := ""
			if r.FlatRate != nil {
				flat = r.FlatRate.String()
			}
			rows = append(rows, []string{r.Country, r.Code, fmt.Sprintf("%d", r.Year),
				fmt.Sprintf("%d", r.BracketCount), fmt.Sprintf("%t", r.Progressive), flat,
				r.TopBracketThreshold.String(), r.StandardDeduction.String(),
				r.PersonalAllowance.String()})
		}
		if err := writeCSV(path, rows); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SaveDistributionCSV writes an income distribution as an
// income,population table.
func SaveDistributionCSV(path string, dist *domain.IncomeDistribution) error {
	rows := [][]string{{"income", "population"}}
	for _, band := range dist.Bands {
		rows = append(rows, []string{band.Income.String(), band.Population.String()})
	}
	return writeCSV(path, rows)
}

// LoadDistributionCSV reads an income,population table into an income
// distribution. The header row is matched case-insensitively; schema
// problems surface as *domain.SchemaError.
func LoadDistributionCSV(path string) (*domain.IncomeDistribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, &domain.SchemaError{Field: "header", Reason: "file is empty"}
	}

	header := rows[0]
	incomeCol, populationCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "income":
			incomeCol = i
		case "population":
			populationCol = i
		}
	}
	if incomeCol < 0 {
		return nil, &domain.SchemaError{Field: "income", Reason: "column missing"}
	}
	if populationCol < 0 {
		return nil, &domain.SchemaError{Field: "population", Reason: "column missing"}
	}

	bands := make([]domain.IncomeBand, 0, len(rows)-1)
	for lineNo, row := range rows[1:] {
		income, err := decimal.NewFromString(strings.TrimSpace(row[incomeCol]))
		if err != nil {
			return nil, &domain.SchemaError{Field: "income", Reason: fmt.Sprintf("row %d: not a number: %q", lineNo+2, row[incomeCol])}
		}
		population, err := decimal.NewFromString(strings.TrimSpace(row[populationCol]))
		if err != nil {
			return nil, &domain.SchemaError{Field: "population", Reason: fmt.Sprintf("row %d: not a number: %q", lineNo+2, row[populationCol])}
		}
		bands = append(bands, domain.IncomeBand{Income: income, Population: population})
	}

	dist := &domain.IncomeDistribution{Bands: bands}
	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return dist, nil
}
