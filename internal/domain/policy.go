package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PolicyKind identifies one of the closed set of tax policy variants.
type PolicyKind string

const (
	KindProgressive PolicyKind = "progressive"
	KindFlat        PolicyKind = "flat"
	KindRegressive  PolicyKind = "regressive"
	KindCustom      PolicyKind = "custom"
)

// NoCeiling marks an open-ended top bracket. Large enough that no
// realistic income exceeds it.
var NoCeiling = decimal.NewFromInt(999999999999)

// Bracket is a contiguous income sub-range taxed at a single rate.
// The rate applies only to income between Min and Max.
type Bracket struct {
	Min  decimal.Decimal `json:"min" yaml:"min"`
	Max  decimal.Decimal `json:"max" yaml:"max"`
	Rate decimal.Decimal `json:"rate" yaml:"rate"`
}

// TaxPolicy is the capability shared by all policy variants. The
// variant set is sealed: Progressive, Flat, Regressive and Custom are
// the only implementations, so callers may switch exhaustively on
// Kind().
type TaxPolicy interface {
	// CalculateTax returns the tax liability for the given income.
	// Zero for income <= 0 in every variant.
	CalculateTax(income decimal.Decimal) decimal.Decimal

	// MarginalRate returns the rate applied to the next unit of income
	// at the given income level.
	MarginalRate(income decimal.Decimal) decimal.Decimal

	PolicyName() string
	Kind() PolicyKind

	sealed()
}

// RateParameterized is the capability query used by sensitivity
// substitution: only variants carrying a single scalar rate implement
// it. FlatTax is currently the only such variant.
type RateParameterized interface {
	TaxPolicy
	Rate() decimal.Decimal
	WithRate(rate decimal.Decimal) (TaxPolicy, error)
}

// BracketScalable is the capability query used by the break-even
// rate-scale solver: bracketed variants can produce a copy with every
// bracket rate multiplied by a uniform non-negative factor. Flat and
// custom policies do not implement it.
type BracketScalable interface {
	TaxPolicy
	WithScaledRates(scale decimal.Decimal) (TaxPolicy, error)
}

// EffectiveRate returns total tax divided by income, zero when income
// is not positive. Identical derivation for every variant.
func EffectiveRate(p TaxPolicy, income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return p.CalculateTax(income).Div(income)
}

// sortBrackets returns a fresh slice ordered by ascending Min so that
// arbitrary construction order yields identical behavior.
func sortBrackets(brackets []Bracket) []Bracket {
	sorted := make([]Bracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Min.LessThan(sorted[j].Min)
	})
	return sorted
}

// validateBrackets enforces the shared bracket invariants: at least one
// bracket, min >= 0, max >= min, rate >= 0.
func validateBrackets(policy string, brackets []Bracket) error {
	if len(brackets) == 0 {
		return &BracketError{Policy: policy, Index: -1, Reason: "at least one bracket must be provided"}
	}
	for i, b := range brackets {
		switch {
		case b.Min.IsNegative():
			return &BracketError{Policy: policy, Index: i, Reason: "min income is negative"}
		case b.Max.LessThan(b.Min):
			return &BracketError{Policy: policy, Index: i, Reason: "max income is below min income"}
		case b.Rate.IsNegative():
			return &BracketError{Policy: policy, Index: i, Reason: "rate is negative"}
		}
	}
	return nil
}

// bracketTax walks brackets in ascending min order, taxing
// min(remaining, width) in each until the income is exhausted. The
// same piecewise-linear integral serves ascending and descending rate
// schedules; only construction-time validation differs.
func bracketTax(brackets []Bracket, income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	totalTax := decimal.Zero
	remaining := income
	for _, b := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inBracket := decimal.Min(remaining, b.Max.Sub(b.Min))
		if inBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(inBracket.Mul(b.Rate))
			remaining = remaining.Sub(inBracket)
		}
	}
	return totalTax
}

// bracketMarginalRate returns the rate of the bracket containing the
// income (matched by min <= income < max). Income above every bracket
// falls back to the last sorted bracket's rate.
func bracketMarginalRate(brackets []Bracket, income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	for _, b := range brackets {
		if income.GreaterThanOrEqual(b.Min) && income.LessThan(b.Max) {
			return b.Rate
		}
	}
	return brackets[len(brackets)-1].Rate
}

// scaleBrackets returns a copy of the brackets with every rate
// multiplied by scale. Scaling preserves the relative ordering of
// rates, so a valid schedule stays valid.
func scaleBrackets(policy string, brackets []Bracket, scale decimal.Decimal) ([]Bracket, error) {
	if scale.IsNegative() {
		return nil, &BracketError{Policy: policy, Index: -1, Reason: "rate scale is negative"}
	}
	scaled := make([]Bracket, len(brackets))
	for i, b := range brackets {
		scaled[i] = Bracket{Min: b.Min, Max: b.Max, Rate: b.Rate.Mul(scale)}
	}
	return scaled, nil
}

// ProgressiveTax applies ascending marginal rates across ordered
// brackets.
type ProgressiveTax struct {
	Name     string
	Brackets []Bracket
}

// NewProgressiveTax builds a progressive policy from brackets in any
// order. Fails with *BracketError on malformed brackets.
func NewProgressiveTax(name string, brackets []Bracket) (*ProgressiveTax, error) {
	if name == "" {
		name = "Progressive Tax"
	}
	sorted := sortBrackets(brackets)
	if err := validateBrackets(name, sorted); err != nil {
		return nil, err
	}
	return &ProgressiveTax{Name: name, Brackets: sorted}, nil
}

func (p *ProgressiveTax) CalculateTax(income decimal.Decimal) decimal.Decimal {
	return bracketTax(p.Brackets, income)
}

func (p *ProgressiveTax) MarginalRate(income decimal.Decimal) decimal.Decimal {
	return bracketMarginalRate(p.Brackets, income)
}

func (p *ProgressiveTax) PolicyName() string { return p.Name }
func (p *ProgressiveTax) Kind() PolicyKind   { return KindProgressive }
func (p *ProgressiveTax) sealed()            {}

// WithScaledRates returns a copy with every bracket rate multiplied by
// scale.
func (p *ProgressiveTax) WithScaledRates(scale decimal.Decimal) (TaxPolicy, error) {
	scaled, err := scaleBrackets(p.Name, p.Brackets, scale)
	if err != nil {
		return nil, err
	}
	return &ProgressiveTax{Name: p.Name, Brackets: scaled}, nil
}

// FlatTax taxes all income at a single rate in [0,1].
type FlatTax struct {
	Name     string
	FlatRate decimal.Decimal
}

// NewFlatTax builds a flat policy. The rate must be within [0,1].
func NewFlatTax(name string, rate decimal.Decimal) (*FlatTax, error) {
	if name == "" {
		name = "Flat Tax"
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, &BracketError{Policy: name, Index: -1, Reason: "flat rate must be between 0 and 1"}
	}
	return &FlatTax{Name: name, FlatRate: rate}, nil
}

func (f *FlatTax) CalculateTax(income decimal.Decimal) decimal.Decimal {
	tax := income.Mul(f.FlatRate)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// MarginalRate is the flat rate at every income level.
func (f *FlatTax) MarginalRate(decimal.Decimal) decimal.Decimal { return f.FlatRate }

func (f *FlatTax) PolicyName() string { return f.Name }
func (f *FlatTax) Kind() PolicyKind   { return KindFlat }
func (f *FlatTax) sealed()            {}

func (f *FlatTax) Rate() decimal.Decimal { return f.FlatRate }

// WithRate returns a copy of the policy with the rate replaced,
// validated the same way as construction.
func (f *FlatTax) WithRate(rate decimal.Decimal) (TaxPolicy, error) {
	return NewFlatTax(f.Name, rate)
}

// RegressiveTax applies descending marginal rates across ordered
// brackets. Construction rejects any adjacent rate increase.
type RegressiveTax struct {
	Name     string
	Brackets []Bracket
}

// NewRegressiveTax builds a regressive policy from brackets in any
// order. Rates must be non-increasing across the sorted brackets.
func NewRegressiveTax(name string, brackets []Bracket) (*RegressiveTax, error) {
	if name == "" {
		name = "Regressive Tax"
	}
	sorted := sortBrackets(brackets)
	if err := validateBrackets(name, sorted); err != nil {
		return nil, err
	}
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Rate.LessThan(sorted[i+1].Rate) {
			return nil, &BracketError{Policy: name, Index: i + 1, Reason: "regressive rates must be non-increasing"}
		}
	}
	return &RegressiveTax{Name: name, Brackets: sorted}, nil
}

func (r *RegressiveTax) CalculateTax(income decimal.Decimal) decimal.Decimal {
	return bracketTax(r.Brackets, income)
}

// MarginalRate matches the containing bracket. Income above all
// brackets falls back to the last bracket's rate, which for a
// regressive schedule is the lowest rate.
func (r *RegressiveTax) MarginalRate(income decimal.Decimal) decimal.Decimal {
	return bracketMarginalRate(r.Brackets, income)
}

func (r *RegressiveTax) PolicyName() string { return r.Name }
func (r *RegressiveTax) Kind() PolicyKind   { return KindRegressive }
func (r *RegressiveTax) sealed()            {}

// WithScaledRates returns a copy with every bracket rate multiplied by
// scale. A non-increasing schedule stays non-increasing.
func (r *RegressiveTax) WithScaledRates(scale decimal.Decimal) (TaxPolicy, error) {
	scaled, err := scaleBrackets(r.Name, r.Brackets, scale)
	if err != nil {
		return nil, err
	}
	return &RegressiveTax{Name: r.Name, Brackets: scaled}, nil
}

// TaxFunc maps an income to a tax amount or a marginal rate.
type TaxFunc func(income decimal.Decimal) decimal.Decimal

// CustomTax delegates both tax and marginal rate to caller-supplied
// functions. No invariants beyond function presence.
type CustomTax struct {
	Name       string
	TaxFn      TaxFunc
	MarginalFn TaxFunc
}

// NewCustomTax wraps the supplied functions. Both must be non-nil.
func NewCustomTax(name string, taxFn, marginalFn TaxFunc) (*CustomTax, error) {
	if name == "" {
		name = "Custom Tax"
	}
	if taxFn == nil || marginalFn == nil {
		return nil, &BracketError{Policy: name, Index: -1, Reason: "custom tax requires both a tax and a marginal rate function"}
	}
	return &CustomTax{Name: name, TaxFn: taxFn, MarginalFn: marginalFn}, nil
}

func (c *CustomTax) CalculateTax(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return c.TaxFn(income)
}

func (c *CustomTax) MarginalRate(income decimal.Decimal) decimal.Decimal {
	return c.MarginalFn(income)
}

func (c *CustomTax) PolicyName() string { return c.Name }
func (c *CustomTax) Kind() PolicyKind   { return KindCustom }
func (c *CustomTax) sealed()            {}
