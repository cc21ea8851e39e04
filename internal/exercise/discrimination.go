package exercise

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/roach88/qkata/internal/verify"
)

// Grid used by MaximalProbability.
const (
	gridStart  = -10
	gridEnd    = 10
	gridPoints = 1000
)

// StateDiscrimination finds the best single measurement angle for telling
// apart two real qubit states prepared with known priors.
type StateDiscrimination struct{}

func (*StateDiscrimination) Name() string { return "state-discrimination" }

func (*StateDiscrimination) Description() string {
	return "maximal success probability of discriminating two real qubit states"
}

// MaximalProbability returns the largest value of
// p1 cos^2(theta - theta1) + p2 sin^2(theta - theta2) over a fixed grid
// of measurement angles.
func MaximalProbability(theta1, theta2, p1, p2 float64) float64 {
	grid := floats.Span(make([]float64, gridPoints), gridStart, gridEnd)
	best := math.Inf(-1)
	for _, theta := range grid {
		theta = math.Mod(theta, 2*math.Pi)
		if theta < 0 {
			theta += 2 * math.Pi
		}
		c := math.Cos(theta - theta1)
		s := math.Sin(theta - theta2)
		best = max(best, p1*c*c+p2*s*s)
	}
	return best
}

// Run parses [theta1, theta2, p1, p2] and returns the maximal probability.
func (*StateDiscrimination) Run(_ context.Context, input string) (string, error) {
	vals, err := decodeFloats(input, 4)
	if err != nil {
		return "", err
	}
	return formatFloat(MaximalProbability(vals[0], vals[1], vals[2], vals[3])), nil
}

// Check compares output and expected with relative tolerance 1e-4.
func (*StateDiscrimination) Check(_ context.Context, output, expected string) error {
	have, err := parseFloat(output)
	if err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	want, err := parseFloat(expected)
	if err != nil {
		return fmt.Errorf("decode expected: %w", err)
	}
	return verify.AllClose([]float64{have}, []float64{want}, 1e-4, verify.DefaultATol)
}
