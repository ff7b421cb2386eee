package domain

import "github.com/shopspring/decimal"

// SensitivityParameter describes a value sweep over one policy
// parameter.
type SensitivityParameter struct {
	Name     string          `json:"name" yaml:"name"`
	MinValue decimal.Decimal `json:"minValue" yaml:"min"`
	MaxValue decimal.Decimal `json:"maxValue" yaml:"max"`
	Steps    int             `json:"steps" yaml:"steps"`
}

// Values expands the sweep into evenly spaced candidate values using a
// (max-min)/(steps-1) step. A single step yields just the minimum.
func (p SensitivityParameter) Values() []decimal.Decimal {
	if p.Steps <= 1 {
		return []decimal.Decimal{p.MinValue}
	}

	stepSize := p.MaxValue.Sub(p.MinValue).Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, 0, p.Steps)
	for i := 0; i < p.Steps; i++ {
		values = append(values, p.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}
