package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tpgo/tpgo/internal/calculation"
	"github.com/tpgo/tpgo/internal/domain"
)

var two = decimal.NewFromInt(2)

// Solver finds the flat-tax rate or bracket-rate scale that hits a
// revenue target via bisection.
type Solver struct {
	Revenue *calculation.RevenueCalculator
	Options SolverOptions
}

// NewSolver creates a solver with default options.
func NewSolver() *Solver {
	return &Solver{
		Revenue: calculation.NewRevenueCalculator(),
		Options: DefaultSolverOptions(),
	}
}

// SetLogger wires a logger into the underlying revenue calculator.
func (s *Solver) SetLogger(l calculation.Logger) {
	s.Revenue.SetLogger(l)
}

// SolveFlatRate searches [0,1] for the flat rate whose revenue over the
// distribution matches the target within tolerance. The target must be
// non-negative and no greater than the revenue of a 100% flat tax.
func (s *Solver) SolveFlatRate(ctx context.Context, dist *domain.IncomeDistribution, target decimal.Decimal) (*Result, error) {
	if target.IsNegative() {
		return nil, &SolveError{Operation: "solve flat rate", Message: "target revenue cannot be negative"}
	}

	ceiling, err := s.flatRevenue(dist, decimal.NewFromInt(1))
	if err != nil {
		return nil, &SolveError{Operation: "solve flat rate", Message: "ceiling evaluation failed", Cause: err}
	}
	if target.GreaterThan(ceiling) {
		return nil, &SolveError{
			Operation: "solve flat rate",
			Message:   fmt.Sprintf("target %s exceeds maximum achievable revenue %s", target.StringFixed(2), ceiling.StringFixed(2)),
		}
	}

	minRate := decimal.Zero
	maxRate := decimal.NewFromInt(1)
	result := &Result{TargetRevenue: target}

	for i := 0; i < s.Options.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rate := minRate.Add(maxRate).Div(two)
		revenue, err := s.flatRevenue(dist, rate)
		if err != nil {
			return nil, &SolveError{Operation: "solve flat rate", Message: "revenue evaluation failed", Cause: err}
		}

		result.SolvedRate = rate
		result.AchievedRevenue = revenue
		result.Iterations = i + 1

		diff := revenue.Sub(target)
		if diff.Abs().LessThanOrEqual(s.Options.Tolerance) {
			result.PolicyName = fmt.Sprintf("Flat Tax (%s%%)", rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
			result.Converged = true
			return result, nil
		}
		if diff.GreaterThan(decimal.Zero) {
			maxRate = rate
		} else {
			minRate = rate
		}
	}

	result.PolicyName = fmt.Sprintf("Flat Tax (%s%%)", result.SolvedRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	return result, nil
}

// SolveRateScale searches for the uniform multiplier on every bracket
// rate of the base policy that matches the target revenue. Flat and
// custom policies are rejected; their rates are not bracketed.
func (s *Solver) SolveRateScale(ctx context.Context, base domain.TaxPolicy, dist *domain.IncomeDistribution, target decimal.Decimal) (*Result, error) {
	if target.IsNegative() {
		return nil, &SolveError{Operation: "solve rate scale", Message: "target revenue cannot be negative"}
	}

	scalable, ok := base.(domain.BracketScalable)
	if !ok {
		return nil, &SolveError{
			Operation: "solve rate scale",
			Message:   fmt.Sprintf("policy %s (%s) has no scalable brackets", base.PolicyName(), base.Kind()),
		}
	}

	ceiling, err := s.scaledRevenue(scalable, dist, s.Options.MaxScale)
	if err != nil {
		return nil, &SolveError{Operation: "solve rate scale", Message: "ceiling evaluation failed", Cause: err}
	}
	if target.GreaterThan(ceiling) {
		return nil, &SolveError{
			Operation: "solve rate scale",
			Message:   fmt.Sprintf("target %s exceeds revenue %s at maximum scale %s", target.StringFixed(2), ceiling.StringFixed(2), s.Options.MaxScale.String()),
		}
	}

	minScale := decimal.Zero
	maxScale := s.Options.MaxScale
	result := &Result{PolicyName: base.PolicyName(), TargetRevenue: target}

	for i := 0; i < s.Options.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		scale := minScale.Add(maxScale).Div(two)
		revenue, err := s.scaledRevenue(scalable, dist, scale)
		if err != nil {
			return nil, &SolveError{Operation: "solve rate scale", Message: "revenue evaluation failed", Cause: err}
		}

		result.SolvedScale = scale
		result.AchievedRevenue = revenue
		result.Iterations = i + 1

		diff := revenue.Sub(target)
		if diff.Abs().LessThanOrEqual(s.Options.Tolerance) {
			result.Converged = true
			return result, nil
		}
		if diff.GreaterThan(decimal.Zero) {
			maxScale = scale
		} else {
			minScale = scale
		}
	}

	return result, nil
}

func (s *Solver) flatRevenue(dist *domain.IncomeDistribution, rate decimal.Decimal) (decimal.Decimal, error) {
	policy, err := domain.NewFlatTax("bisection probe", rate)
	if err != nil {
		return decimal.Zero, err
	}
	res, err := s.Revenue.CalculateRevenue(policy, dist)
	if err != nil {
		return decimal.Zero, err
	}
	return res.TotalRevenue, nil
}

func (s *Solver) scaledRevenue(base domain.BracketScalable, dist *domain.IncomeDistribution, scale decimal.Decimal) (decimal.Decimal, error) {
	policy, err := base.WithScaledRates(scale)
	if err != nil {
		return decimal.Zero, err
	}
	res, err := s.Revenue.CalculateRevenue(policy, dist)
	if err != nil {
		return decimal.Zero, err
	}
	return res.TotalRevenue, nil
}
