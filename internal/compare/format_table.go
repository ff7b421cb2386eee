package compare

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// TableFormatter renders a comparison set as styled console tables.
type TableFormatter struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Format generates the full console comparison report.
func (tf *TableFormatter) Format(set *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("TAX POLICY COMPARISON") + "\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n\n")

	sb.WriteString(sectionStyle.Render("REVENUE COMPARISON") + "\n")
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-28s %16s %14s %12s", "Policy", "Total Revenue", "Per Capita", "Avg Rate")) + "\n")
	for _, row := range set.RevenueComparison {
		sb.WriteString(fmt.Sprintf("%-28s %16s %14s %11s%%\n",
			truncate(row.PolicyName, 28),
			"$"+humanize(row.TotalRevenue),
			"$"+humanize(row.RevenuePerCapita),
			row.AverageEffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}
	sb.WriteString("\n")

	if len(set.BurdenAnalysis) > 0 {
		sb.WriteString(sectionStyle.Render("TAX BURDEN BY INCOME GROUP") + "\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%-28s %-14s %12s %14s %12s", "Policy", "Group", "Avg Rate", "Tax/Capita", "Tax Share")) + "\n")
		for _, row := range set.BurdenAnalysis {
			sb.WriteString(fmt.Sprintf("%-28s %-14s %11s%% %14s %11s%%\n",
				truncate(row.PolicyName, 28),
				row.Group,
				row.AvgEffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(1),
				"$"+humanize(row.TaxPerCapita),
				row.ShareOfTotalTax.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		}
		sb.WriteString("\n")
	}

	if len(set.Progressivity) > 0 {
		sb.WriteString(sectionStyle.Render("PROGRESSIVITY") + "\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%-28s %12s %-14s %12s", "Policy", "Kakwani", "Class", "Avg Rate")) + "\n")
		for _, row := range set.Progressivity {
			sb.WriteString(fmt.Sprintf("%-28s %12s %-14s %11s%%\n",
				truncate(row.PolicyName, 28),
				row.KakwaniIndex.StringFixed(4),
				row.Classification,
				row.AvgEffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		}
		sb.WriteString("\n")
	}

	if len(set.Efficiency) > 0 {
		sb.WriteString(sectionStyle.Render("EFFICIENCY METRICS") + "\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%-28s %16s %14s %12s", "Policy", "Total Revenue", "Efficiency", "Kakwani")) + "\n")
		for _, row := range set.Efficiency {
			sb.WriteString(fmt.Sprintf("%-28s %16s %14s %12s\n",
				truncate(row.PolicyName, 28),
				"$"+humanize(row.TotalRevenue),
				formatEfficiency(row.RevenueEfficiency),
				row.KakwaniIndex.StringFixed(4)))
		}
		sb.WriteString("\n")
	}

	if set.Ranking != nil && len(set.Ranking.Entries) > 0 {
		sb.WriteString(sectionStyle.Render("POLICY RANKING") + "\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%5s %-28s %14s", "Rank", "Policy", "Score")) + "\n")
		for _, entry := range set.Ranking.Entries {
			sb.WriteString(fmt.Sprintf("%5d %-28s %14s\n",
				entry.Rank, truncate(entry.PolicyName, 28), entry.CompositeScore.StringFixed(4)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatEfficiency(v EfficiencyValue) string {
	if v.IsInf() {
		return "inf"
	}
	return fmt.Sprintf("%.4f", float64(v))
}

// humanize formats a decimal in K/M units for display.
func humanize(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1000000000)):
		return d.Div(decimal.NewFromInt(1000000000)).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1000000)):
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
