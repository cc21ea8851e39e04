// Package optimize implements fixed-step gradient descent over a scalar
// cost of real parameters. Gradients are taken by central differences.
package optimize

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultDelta is the central-difference half width.
const DefaultDelta = 1e-5

// Cost evaluates a scalar objective at params. It must not retain params.
type Cost func(ctx context.Context, params []float64) (float64, error)

// GradientDescent moves parameters against the gradient by StepSize.
type GradientDescent struct {
	StepSize float64
	// Delta is the finite-difference half width; zero means DefaultDelta.
	Delta float64
}

// Gradient estimates the gradient of cost at params.
func (g GradientDescent) Gradient(ctx context.Context, cost Cost, params []float64) ([]float64, error) {
	h := g.Delta
	if h == 0 {
		h = DefaultDelta
	}
	grad := make([]float64, len(params))
	probe := make([]float64, len(params))
	for i := range params {
		copy(probe, params)
		probe[i] = params[i] + h
		up, err := cost(ctx, probe)
		if err != nil {
			return nil, fmt.Errorf("gradient component %d: %w", i, err)
		}
		probe[i] = params[i] - h
		down, err := cost(ctx, probe)
		if err != nil {
			return nil, fmt.Errorf("gradient component %d: %w", i, err)
		}
		grad[i] = (up - down) / (2 * h)
	}
	return grad, nil
}

// Step returns params - StepSize * grad(cost)(params). params is unchanged.
func (g GradientDescent) Step(ctx context.Context, cost Cost, params []float64) ([]float64, error) {
	if g.StepSize <= 0 {
		return nil, errors.New("step size must be positive")
	}
	grad, err := g.Gradient(ctx, cost, params)
	if err != nil {
		return nil, err
	}
	next := make([]float64, len(params))
	floats.AddScaledTo(next, params, -g.StepSize, grad)
	return next, nil
}

// Minimize takes exactly steps steps from start and returns the final
// parameters and their cost.
func (g GradientDescent) Minimize(ctx context.Context, cost Cost, start []float64, steps int) ([]float64, float64, error) {
	params := make([]float64, len(start))
	copy(params, start)
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		next, err := g.Step(ctx, cost, params)
		if err != nil {
			return nil, 0, fmt.Errorf("step %d: %w", i, err)
		}
		params = next
	}
	final, err := cost(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return params, final, nil
}
