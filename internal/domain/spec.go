package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BracketSpec is the serialized form of a bracket. A nil Max means the
// bracket is open-ended.
type BracketSpec struct {
	Min  decimal.Decimal  `json:"min" yaml:"min"`
	Max  *decimal.Decimal `json:"max,omitempty" yaml:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate" yaml:"rate"`
}

// PolicySpec is the serialized form of a policy, as written in analysis
// config files. Custom policies have no serialized form and cannot be
// expressed as a spec.
type PolicySpec struct {
	Name     string           `json:"name" yaml:"name"`
	Type     PolicyKind       `json:"type" yaml:"type"`
	Rate     *decimal.Decimal `json:"rate,omitempty" yaml:"rate,omitempty"`
	Brackets []BracketSpec    `json:"brackets,omitempty" yaml:"brackets,omitempty"`
}

// FromSpec builds the concrete policy a spec describes. Bracket and
// rate violations surface as *BracketError; an unknown kind is a plain
// error.
func FromSpec(spec PolicySpec) (TaxPolicy, error) {
	switch spec.Type {
	case KindProgressive:
		return NewProgressiveTax(spec.Name, specBrackets(spec.Brackets))
	case KindRegressive:
		return NewRegressiveTax(spec.Name, specBrackets(spec.Brackets))
	case KindFlat:
		if spec.Rate == nil {
			return nil, &BracketError{Policy: spec.Name, Index: -1, Reason: "flat policy requires a rate"}
		}
		return NewFlatTax(spec.Name, *spec.Rate)
	case KindCustom:
		return nil, fmt.Errorf("custom policies cannot be built from a spec")
	default:
		return nil, fmt.Errorf("unknown tax policy type: %s", spec.Type)
	}
}

func specBrackets(specs []BracketSpec) []Bracket {
	brackets := make([]Bracket, 0, len(specs))
	for _, s := range specs {
		max := NoCeiling
		if s.Max != nil {
			max = *s.Max
		}
		brackets = append(brackets, Bracket{Min: s.Min, Max: max, Rate: s.Rate})
	}
	return brackets
}
