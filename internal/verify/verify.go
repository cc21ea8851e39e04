// Package verify holds the predicates exercise checkers assert with.
//
// Every predicate returns nil or an *AssertionError, which the harness
// reports as a wrong answer rather than a runtime fault.
package verify

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/qkata/internal/circuit"
)

// Default tolerances, matching numpy.isclose.
const (
	DefaultRTol = 1e-5
	DefaultATol = 1e-8
)

// Assertion types.
const (
	TypeClose      = "close"
	TypeAllClose   = "all_close"
	TypeEqual      = "equal"
	TypeGreater    = "greater"
	TypeGateAbsent = "gate_absent"
	TypeGateSet    = "gate_set"
	TypeSign       = "sign"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Tape     []string // Op names of the inspected tape, for structural checks
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
	if len(e.Tape) > 0 {
		fmt.Fprintf(&buf, " (tape: %s)", strings.Join(e.Tape, " "))
	}
	return buf.String()
}

// IsAssertion reports whether err is or wraps an *AssertionError.
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// IsClose reports |a - b| <= atol + rtol*|b|. NaN is never close.
func IsClose(a, b, rtol, atol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// Close asserts IsClose(actual, expected, rtol, atol).
func Close(actual, expected, rtol, atol float64) error {
	if IsClose(actual, expected, rtol, atol) {
		return nil
	}
	return &AssertionError{
		Type:     TypeClose,
		Expected: fmt.Sprintf("%v (rtol %g, atol %g)", expected, rtol, atol),
		Actual:   fmt.Sprint(actual),
	}
}

// AllClose asserts element-wise IsClose and equal lengths.
func AllClose(actual, expected []float64, rtol, atol float64) error {
	if len(actual) != len(expected) {
		return &AssertionError{
			Type:     TypeAllClose,
			Expected: fmt.Sprintf("%d values", len(expected)),
			Actual:   fmt.Sprintf("%d values", len(actual)),
		}
	}
	for i := range actual {
		if !IsClose(actual[i], expected[i], rtol, atol) {
			return &AssertionError{
				Type:     TypeAllClose,
				Expected: fmt.Sprintf("index %d: %v", i, expected[i]),
				Actual:   fmt.Sprintf("index %d: %v", i, actual[i]),
			}
		}
	}
	return nil
}

// Equal asserts exact string equality.
func Equal(actual, expected string) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Type:     TypeEqual,
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", actual),
	}
}

// Greater asserts actual > bound.
func Greater(actual, bound float64) error {
	if actual > bound {
		return nil
	}
	return &AssertionError{
		Type:     TypeGreater,
		Expected: fmt.Sprintf("> %v", bound),
		Actual:   fmt.Sprint(actual),
	}
}

// GateAbsent asserts the tape never uses name.
func GateAbsent(tape *circuit.Tape, name string) error {
	n := tape.Count(name)
	if n == 0 {
		return nil
	}
	return &AssertionError{
		Type:     TypeGateAbsent,
		Expected: fmt.Sprintf("no %s", name),
		Actual:   fmt.Sprintf("%d %s ops", n, name),
		Tape:     tape.NameSet(),
	}
}

// GateSetEquals asserts the set of op names on the tape is exactly names.
func GateSetEquals(tape *circuit.Tape, names ...string) error {
	want := slices.Clone(names)
	slices.Sort(want)
	want = slices.Compact(want)
	got := tape.NameSet()
	if slices.Equal(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     TypeGateSet,
		Expected: "{" + strings.Join(want, ", ") + "}",
		Actual:   "{" + strings.Join(got, ", ") + "}",
		Tape:     got,
	}
}

// CloseToSign asserts actual[i] is close to -1 where marked[i] is true and
// close to +1 elsewhere.
func CloseToSign(actual []float64, marked []bool) error {
	if len(actual) != len(marked) {
		return &AssertionError{
			Type:     TypeSign,
			Expected: fmt.Sprintf("%d values", len(marked)),
			Actual:   fmt.Sprintf("%d values", len(actual)),
		}
	}
	for i, v := range actual {
		want := 1.0
		if marked[i] {
			want = -1
		}
		if !IsClose(v, want, DefaultRTol, DefaultATol) {
			return &AssertionError{
				Type:     TypeSign,
				Expected: fmt.Sprintf("index %d: %v", i, want),
				Actual:   fmt.Sprintf("index %d: %v", i, v),
			}
		}
	}
	return nil
}
