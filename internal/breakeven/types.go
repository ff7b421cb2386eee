package breakeven

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SolverOptions bounds the bisection search.
type SolverOptions struct {
	MaxIterations int
	Tolerance     decimal.Decimal // absolute revenue tolerance
	MaxScale      decimal.Decimal // upper bound for rate-scale search
}

// DefaultSolverOptions returns the standard search bounds.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 100,
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxScale:      decimal.NewFromInt(10),
	}
}

// Result reports a solved rate or scale along with the revenue it
// achieves.
type Result struct {
	PolicyName      string          `json:"policyName"`
	SolvedRate      decimal.Decimal `json:"solvedRate,omitempty"`
	SolvedScale     decimal.Decimal `json:"solvedScale,omitempty"`
	AchievedRevenue decimal.Decimal `json:"achievedRevenue"`
	TargetRevenue   decimal.Decimal `json:"targetRevenue"`
	Iterations      int             `json:"iterations"`
	Converged       bool            `json:"converged"`
}

// SolveError wraps a solver failure with the operation that produced
// it.
type SolveError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *SolveError) Unwrap() error { return e.Cause }
