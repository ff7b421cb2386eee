package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/compare"
)

// Formatter renders a comparison set into one output format.
type Formatter interface {
	Format(set *compare.ComparisonSet) ([]byte, error)
	Name() string
}

// GetFormatterByName returns the formatter registered under the given
// name, or nil when no such formatter exists.
func GetFormatterByName(name string) Formatter {
	switch strings.ToLower(name) {
	case "console":
		return ConsoleFormatter{}
	case "markdown", "md":
		return MarkdownFormatter{}
	case "csv":
		return CSVFormatter{}
	case "json":
		return JSONFormatter{}
	case "pdf":
		return PDFFormatter{}
	default:
		return nil
	}
}

// FormatterNames lists the registered formatter names.
func FormatterNames() []string {
	return []string{"console", "markdown", "csv", "json", "pdf"}
}

// FormatCurrency formats a decimal as a dollar amount.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal rate (0..1) as a percentage.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// ConsoleFormatter renders the styled console report via the compare
// package's table formatter.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(set *compare.ComparisonSet) ([]byte, error) {
	tf := &compare.TableFormatter{}
	return []byte(tf.Format(set)), nil
}

// CSVFormatter renders the per-table CSV blocks.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(set *compare.ComparisonSet) ([]byte, error) {
	cf := &compare.CSVFormatter{}
	out, err := cf.Format(set)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// JSONFormatter renders the comparison set as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(set *compare.ComparisonSet) ([]byte, error) {
	jf := &compare.JSONFormatter{Pretty: true}
	out, err := jf.Format(set)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// MarkdownFormatter renders a report document with pipe tables and a
// key-findings section.
type MarkdownFormatter struct{}

func (MarkdownFormatter) Name() string { return "markdown" }

func (MarkdownFormatter) Format(set *compare.ComparisonSet) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "# Tax Policy Analysis Report")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Generated: %s\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintln(&buf)

	if len(set.RevenueComparison) > 0 {
		fmt.Fprintln(&buf, "## Revenue Comparison")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Policy | Total Revenue | Revenue Per Capita | Avg Effective Rate |")
		fmt.Fprintln(&buf, "|---|---|---|---|")
		for _, row := range set.RevenueComparison {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				row.PolicyName,
				FormatCurrency(row.TotalRevenue),
				FormatCurrency(row.RevenuePerCapita),
				FormatPercentage(row.AverageEffectiveRate))
		}
		fmt.Fprintln(&buf)
	}

	if len(set.BurdenAnalysis) > 0 {
		fmt.Fprintln(&buf, "## Tax Burden by Income Group")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Policy | Group | Income Range | Avg Rate | Tax Per Capita | Share of Tax |")
		fmt.Fprintln(&buf, "|---|---|---|---|---|---|")
		for _, row := range set.BurdenAnalysis {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %s |\n",
				row.PolicyName, row.Group, row.IncomeRange,
				FormatPercentage(row.AvgEffectiveRate),
				FormatCurrency(row.TaxPerCapita),
				FormatPercentage(row.ShareOfTotalTax))
		}
		fmt.Fprintln(&buf)
	}

	if len(set.Progressivity) > 0 {
		fmt.Fprintln(&buf, "## Progressivity")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Policy | Kakwani Index | Classification | Avg Effective Rate |")
		fmt.Fprintln(&buf, "|---|---|---|---|")
		for _, row := range set.Progressivity {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				row.PolicyName,
				row.KakwaniIndex.StringFixed(4),
				row.Classification,
				FormatPercentage(row.AvgEffectiveRate))
		}
		fmt.Fprintln(&buf)
	}

	if len(set.Efficiency) > 0 {
		fmt.Fprintln(&buf, "## Efficiency Metrics")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Policy | Total Revenue | Revenue Efficiency | Kakwani Index |")
		fmt.Fprintln(&buf, "|---|---|---|---|")
		for _, row := range set.Efficiency {
			eff := "inf"
			if !row.RevenueEfficiency.IsInf() {
				eff = fmt.Sprintf("%.4f", float64(row.RevenueEfficiency))
			}
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				row.PolicyName,
				FormatCurrency(row.TotalRevenue),
				eff,
				row.KakwaniIndex.StringFixed(4))
		}
		fmt.Fprintln(&buf)
	}

	if set.Ranking != nil && len(set.Ranking.Entries) > 0 {
		fmt.Fprintln(&buf, "## Policy Ranking")
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "| Rank | Policy | Composite Score |")
		fmt.Fprintln(&buf, "|---|---|---|")
		for _, entry := range set.Ranking.Entries {
			fmt.Fprintf(&buf, "| %d | %s | %s |\n",
				entry.Rank, entry.PolicyName, entry.CompositeScore.StringFixed(4))
		}
		fmt.Fprintln(&buf)
	}

	writeKeyFindings(&buf, set)

	return buf.Bytes(), nil
}

// writeKeyFindings summarizes the headline results: highest revenue
// policy, most progressive policy, and the recommended policy when a
// ranking is present.
func writeKeyFindings(buf *bytes.Buffer, set *compare.ComparisonSet) {
	var findings []string

	if len(set.RevenueComparison) > 0 {
		best := set.RevenueComparison[0]
		for _, row := range set.RevenueComparison[1:] {
			if row.TotalRevenue.GreaterThan(best.TotalRevenue) {
				best = row
			}
		}
		findings = append(findings, fmt.Sprintf("**%s** raises the most revenue (%s).",
			best.PolicyName, FormatCurrency(best.TotalRevenue)))
	}

	if len(set.Progressivity) > 0 {
		best := set.Progressivity[0]
		for _, row := range set.Progressivity[1:] {
			if row.KakwaniIndex.GreaterThan(best.KakwaniIndex) {
				best = row
			}
		}
		findings = append(findings, fmt.Sprintf("**%s** is the most progressive (Kakwani %s).",
			best.PolicyName, best.KakwaniIndex.StringFixed(4)))
	}

	if set.Ranking != nil && len(set.Ranking.Entries) > 0 {
		top := set.Ranking.Entries[0]
		findings = append(findings, fmt.Sprintf("**%s** ranks first under the configured criteria (score %s).",
			top.PolicyName, top.CompositeScore.StringFixed(4)))
	}

	if len(findings) == 0 {
		return
	}

	fmt.Fprintln(buf, "## Key Findings")
	fmt.Fprintln(buf)
	for _, finding := range findings {
		fmt.Fprintf(buf, "- %s\n", finding)
	}
	fmt.Fprintln(buf)
}
