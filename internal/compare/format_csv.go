package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter renders a comparison set as CSV. Each table becomes its
// own record block separated by a blank line, with the table name in
// the first header column.
type CSVFormatter struct{}

// Format generates CSV output for a comparison set.
func (cf *CSVFormatter) Format(set *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write([]string{"table", "policy", "total_revenue", "avg_effective_rate", "revenue_per_capita", "total_population", "total_income"}); err != nil {
		return "", err
	}
	for _, row := range set.RevenueComparison {
		record := []string{
			"revenue_comparison",
			row.PolicyName,
			row.TotalRevenue.StringFixed(2),
			row.AverageEffectiveRate.StringFixed(6),
			row.RevenuePerCapita.StringFixed(2),
			row.TotalPopulation.StringFixed(0),
			row.TotalIncome.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	if err := writeBurdenBlock(writer, "tax_burden", set.BurdenAnalysis); err != nil {
		return "", err
	}
	if err := writeBurdenBlock(writer, "incidence", set.IncidenceAnalysis); err != nil {
		return "", err
	}

	if len(set.Progressivity) > 0 {
		if err := writer.Write([]string{"table", "policy", "avg_effective_rate", "total_tax", "total_income", "kakwani_index", "classification"}); err != nil {
			return "", err
		}
		for _, row := range set.Progressivity {
			record := []string{
				"progressivity",
				row.PolicyName,
				row.AvgEffectiveRate.StringFixed(6),
				row.TotalTax.StringFixed(2),
				row.TotalIncome.StringFixed(2),
				row.KakwaniIndex.StringFixed(6),
				row.Classification,
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}
	}

	if len(set.Efficiency) > 0 {
		if err := writer.Write([]string{"table", "policy", "total_revenue", "avg_tax_rate", "revenue_efficiency", "kakwani_index", "revenue_per_capita"}); err != nil {
			return "", err
		}
		for _, row := range set.Efficiency {
			record := []string{
				"efficiency",
				row.PolicyName,
				row.TotalRevenue.StringFixed(2),
				row.AvgTaxRate.StringFixed(6),
				fmt.Sprintf("%g", row.RevenueEfficiency),
				row.KakwaniIndex.StringFixed(6),
				row.RevenuePerCapita.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}
	}

	if set.Ranking != nil {
		if err := writer.Write([]string{"table", "policy", "rank", "composite_score"}); err != nil {
			return "", err
		}
		for _, entry := range set.Ranking.Entries {
			record := []string{
				"ranking",
				entry.PolicyName,
				fmt.Sprintf("%d", entry.Rank),
				entry.CompositeScore.StringFixed(6),
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeBurdenBlock(writer *csv.Writer, table string, rows []BurdenRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := writer.Write([]string{"table", "policy", "income_group", "income_range", "total_income", "total_tax", "population", "avg_effective_rate", "tax_per_capita", "share_of_total_tax"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			table,
			row.PolicyName,
			row.Group,
			row.IncomeRange,
			row.TotalIncome.StringFixed(2),
			row.TotalTax.StringFixed(2),
			row.Population.StringFixed(0),
			row.AvgEffectiveRate.StringFixed(6),
			row.TaxPerCapita.StringFixed(2),
			row.ShareOfTotalTax.StringFixed(6),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
