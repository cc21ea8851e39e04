package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/roach88/qkata/internal/canon"
)

// Runner is the part of an exercise the harness drives.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
	Check(ctx context.Context, output, expected string) error
}

// Options configures Run. The zero value discards all output.
type Options struct {
	// Printer receives progress and verdict lines; nil prints nothing.
	Printer *Printer

	Logger *slog.Logger

	// Sequence numbers outcomes; nil starts a fresh sequence at 1.
	Sequence *Sequence
}

// PanicError is a recovered panic from exercise code.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Run executes every case of scenario against runner.
//
// Each case is independent: a Run error or panic yields a Runtime Error
// verdict, a Check error yields Wrong Answer, and the next case runs
// regardless. Run only returns an error for an invalid scenario or a
// cancelled context; in the latter case the partial result is returned
// too.
func Run(ctx context.Context, scenario *Scenario, runner Runner, opts Options) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Sequence == nil {
		opts.Sequence = NewSequence()
	}

	hash, err := ScenarioHash(scenario)
	if err != nil {
		return nil, fmt.Errorf("hash scenario: %w", err)
	}
	result := NewResult(scenario)
	result.ScenarioHash = hash

	for i, c := range scenario.Cases {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if opts.Printer != nil {
			opts.Printer.Running(i, c.Input)
		}
		outcome := runCase(ctx, runner, i, c)
		outcome.Seq = opts.Sequence.Next()
		result.Record(outcome)
		if opts.Printer != nil {
			opts.Printer.Verdict(outcome)
		}

		opts.Logger.Debug("case finished",
			"scenario", scenario.Name,
			"case", i,
			"verdict", outcome.Verdict,
			"seq", outcome.Seq,
		)
	}
	return result, nil
}

func runCase(ctx context.Context, runner Runner, i int, c Case) CaseOutcome {
	outcome := CaseOutcome{Index: i, Input: c.Input, Expected: c.Expected}

	output, err := safeRun(ctx, runner, c.Input)
	if err != nil {
		outcome.Verdict = VerdictRuntimeError
		outcome.Message = err.Error()
		return outcome
	}
	outcome.Output = output

	if err := safeCheck(ctx, runner, output, c.Expected); err != nil {
		var pe *PanicError
		if errors.As(err, &pe) {
			outcome.Verdict = VerdictRuntimeError
		} else {
			outcome.Verdict = VerdictWrongAnswer
		}
		outcome.Message = err.Error()
		return outcome
	}
	outcome.Verdict = VerdictCorrect
	return outcome
}

func safeRun(ctx context.Context, runner Runner, input string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return runner.Run(ctx, input)
}

func safeCheck(ctx context.Context, runner Runner, output, expected string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return runner.Check(ctx, output, expected)
}

// ScenarioHash fingerprints the exercise and cases of s.
func ScenarioHash(s *Scenario) (string, error) {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = map[string]any{"input": c.Input, "expected": c.Expected}
	}
	return canon.Hash(canon.DomainScenario, map[string]any{
		"name":     s.Name,
		"exercise": s.Exercise,
		"cases":    cases,
	})
}
