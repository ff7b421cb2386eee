package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/tpgo/tpgo/internal/compare"
)

const pdfContentWidth = 190.0 // A4 portrait, 10mm margins

// PDFReport builds an A4 analysis document: title page, revenue
// comparison, burden by income group, and progressivity summary.
type PDFReport struct {
	pdf *fpdf.Fpdf
	set *compare.ComparisonSet
}

// NewPDFReport creates a report builder for a comparison set.
func NewPDFReport(set *compare.ComparisonSet) *PDFReport {
	return &PDFReport{
		pdf: fpdf.New("P", "mm", "A4", ""),
		set: set,
	}
}

// Output builds the document and returns the PDF bytes.
func (r *PDFReport) Output() ([]byte, error) {
	r.titlePage()
	r.revenueSection()
	r.burdenSection()
	r.progressivitySection()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFReport) titlePage() {
	r.pdf.AddPage()
	r.pdf.Ln(60)

	r.pdf.SetFont("Arial", "B", 26)
	r.pdf.CellFormat(pdfContentWidth, 15, "Tax Policy Analysis", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 13)
	r.pdf.CellFormat(pdfContentWidth, 10, fmt.Sprintf("%d policies compared", len(r.set.RevenueComparison)), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.CellFormat(pdfContentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
}

func (r *PDFReport) sectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.CellFormat(pdfContentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *PDFReport) tableHeader(widths []float64, labels []string) {
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetFillColor(230, 230, 230)
	for i, label := range labels {
		r.pdf.CellFormat(widths[i], 8, label, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Arial", "", 10)
}

func (r *PDFReport) tableRow(widths []float64, cells []string) {
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		r.pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFReport) revenueSection() {
	if len(r.set.RevenueComparison) == 0 {
		return
	}
	r.pdf.AddPage()
	r.sectionHeader("Revenue Comparison")

	widths := []float64{70, 45, 40, 35}
	r.tableHeader(widths, []string{"Policy", "Total Revenue", "Per Capita", "Avg Rate"})
	for _, row := range r.set.RevenueComparison {
		r.tableRow(widths, []string{
			row.PolicyName,
			FormatCurrency(row.TotalRevenue.Round(0)),
			FormatCurrency(row.RevenuePerCapita),
			FormatPercentage(row.AverageEffectiveRate),
		})
	}
	r.pdf.Ln(6)
}

func (r *PDFReport) burdenSection() {
	if len(r.set.BurdenAnalysis) == 0 {
		return
	}
	r.sectionHeader("Tax Burden by Income Group")

	widths := []float64{55, 35, 30, 35, 35}
	header := false
	current := ""
	for _, row := range r.set.BurdenAnalysis {
		if row.PolicyName != current {
			current = row.PolicyName
			if r.pdf.GetY() > 240 {
				r.pdf.AddPage()
			}
			r.pdf.SetFont("Arial", "B", 11)
			r.pdf.CellFormat(pdfContentWidth, 8, current, "", 1, "L", false, 0, "")
			header = false
		}
		if !header {
			r.tableHeader(widths, []string{"Group", "Range", "Avg Rate", "Tax/Capita", "Tax Share"})
			header = true
		}
		r.tableRow(widths, []string{
			row.Group,
			row.IncomeRange,
			FormatPercentage(row.AvgEffectiveRate),
			FormatCurrency(row.TaxPerCapita),
			FormatPercentage(row.ShareOfTotalTax),
		})
	}
	r.pdf.Ln(6)
}

func (r *PDFReport) progressivitySection() {
	if len(r.set.Progressivity) == 0 {
		return
	}
	if r.pdf.GetY() > 220 {
		r.pdf.AddPage()
	}
	r.sectionHeader("Progressivity Summary")

	widths := []float64{70, 40, 45, 35}
	r.tableHeader(widths, []string{"Policy", "Kakwani", "Classification", "Avg Rate"})
	for _, row := range r.set.Progressivity {
		r.tableRow(widths, []string{
			row.PolicyName,
			row.KakwaniIndex.StringFixed(4),
			row.Classification,
			FormatPercentage(row.AvgEffectiveRate),
		})
	}
}

// PDFFormatter adapts PDFReport to the Formatter interface.
type PDFFormatter struct{}

func (PDFFormatter) Name() string { return "pdf" }

func (PDFFormatter) Format(set *compare.ComparisonSet) ([]byte, error) {
	return NewPDFReport(set).Output()
}
