package domain

import "fmt"

// BracketError reports a malformed or invariant-violating bracket
// definition at policy construction time. Policies are never silently
// repaired; construction fails fast.
type BracketError struct {
	Policy string
	Index  int
	Reason string
}

func (e *BracketError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid bracket %d in %s: %s", e.Index, e.Policy, e.Reason)
	}
	return fmt.Sprintf("invalid policy %s: %s", e.Policy, e.Reason)
}

// SchemaError reports an income distribution that does not satisfy the
// calculator's input contract (missing fields, negative values, empty).
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("distribution schema violation in %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("distribution schema violation: %s", e.Reason)
}
