// Package exercise implements the four quantum exercises.
//
// Each exercise parses a JSON input string, builds and simulates its
// circuits on a fresh device, and renders an output string. Check compares
// an output against the expected literal and returns a
// *verify.AssertionError when they disagree.
package exercise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/qkata/internal/circuit"
)

// NoOutput is the expected literal for exercises whose result is checked
// structurally instead of against a value.
const NoOutput = "No output"

// ErrUnknownExercise is returned by Lookup.
var ErrUnknownExercise = errors.New("unknown exercise")

// ErrInvalidInput wraps every input parsing failure.
var ErrInvalidInput = errors.New("invalid input")

// Exercise is one runnable, checkable exercise.
type Exercise interface {
	Name() string
	Description() string
	Run(ctx context.Context, input string) (string, error)
	Check(ctx context.Context, output, expected string) error
}

// Taper is implemented by exercises that can show the tape of a
// representative circuit for an input.
type Taper interface {
	Tape(ctx context.Context, input string) (*circuit.Tape, error)
}

// Options tunes the exercises. The zero value selects the defaults.
type Options struct {
	// Seed for the QAOA optimizer's random starts; 0 picks a time-based
	// seed and logs it.
	Seed uint64

	// Steps of gradient descent per QAOA start.
	Steps int

	// StepSize of gradient descent.
	StepSize float64

	// Restarts is the number of independent QAOA starts, each running
	// Steps of descent; the best final cost wins. The default of 8 is not
	// a single start: one start of 100 steps often ends below the depth-2
	// bound. Set 1 for a single run.
	Restarts int

	Logger *slog.Logger
}

// Defaults.
const (
	DefaultSteps    = 100
	DefaultStepSize = 0.01
	DefaultRestarts = 8
)

func (o Options) withDefaults() Options {
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.StepSize == 0 {
		o.StepSize = DefaultStepSize
	}
	if o.Restarts == 0 {
		o.Restarts = DefaultRestarts
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Registry returns every exercise in a stable order.
func Registry(opts Options) []Exercise {
	opts = opts.withDefaults()
	return []Exercise{
		&DistanceOracle{},
		NewNoisyQAOA(opts),
		&StateDiscrimination{},
		&SchrodingerCat{},
	}
}

// Lookup returns the exercise called name.
func Lookup(name string, opts Options) (Exercise, error) {
	for _, ex := range Registry(opts) {
		if ex.Name() == name {
			return ex, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, name)
}

// Names lists registered exercise names in registry order.
func Names() []string {
	exs := Registry(Options{})
	names := make([]string, len(exs))
	for i, ex := range exs {
		names[i] = ex.Name()
	}
	return names
}
