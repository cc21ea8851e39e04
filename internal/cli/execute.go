package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qkata/internal/exercise"
	"github.com/roach88/qkata/internal/harness"
	"github.com/roach88/qkata/internal/store"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name     string                `json:"name"`
	Exercise string                `json:"exercise,omitempty"`
	Pass     bool                  `json:"pass"`
	Passed   int                   `json:"passed"`
	Failed   int                   `json:"failed"`
	RunID    string                `json:"run_id,omitempty"`
	Outcomes []harness.CaseOutcome `json:"outcomes,omitempty"`
	Errors   []string              `json:"errors,omitempty"`
}

// RunResult holds the overall result of a batch of scenarios.
type RunResult struct {
	Seed      uint64           `json:"seed"`
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// loaded is a scenario file after parsing; err is set when it could not
// be read.
type loaded struct {
	name     string
	scenario *harness.Scenario
	err      error
}

// executor runs loaded scenarios against the registry and records them.
type executor struct {
	opts   *RootOptions
	out    io.Writer
	logger *slog.Logger
	seed   uint64
	store  *store.Store
}

func newExecutor(opts *RootOptions, cmd *cobra.Command) (*executor, error) {
	e := &executor{
		opts:   opts,
		out:    cmd.OutOrStdout(),
		logger: newLogger(opts, cmd.ErrOrStderr()),
		seed:   opts.Seed,
	}
	if e.seed == 0 {
		e.seed = uint64(time.Now().UnixNano())
		e.logger.Info("using time-based seed", "seed", e.seed)
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		e.store = st
		e.logger.Debug("database ready", "path", opts.Database)
	}
	return e, nil
}

func (e *executor) close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

// execute runs every scenario in order and reports the batch. Failed
// cases yield ExitFailure; a cancelled context yields ExitCommandError.
func (e *executor) execute(ctx context.Context, scenarios []loaded) error {
	result := RunResult{
		Seed:      e.seed,
		Scenarios: make([]ScenarioResult, 0, len(scenarios)),
		Total:     len(scenarios),
	}
	exOpts := exercise.Options{Seed: e.seed, Logger: e.logger}

	var printer *harness.Printer
	if e.opts.Format != "json" {
		printer = harness.NewPrinter(e.out)
		fmt.Fprintf(e.out, "Seed: %d\n", e.seed)
	}
	seq := harness.NewSequence()

	for _, l := range scenarios {
		sr, err := e.runOne(ctx, l, exOpts, printer, seq)
		if err != nil {
			return WrapExitError(ExitCommandError, "scenario run failed", err)
		}
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if e.opts.Format == "json" {
		return outputRunJSON(e.out, result)
	}
	return outputRunText(e.out, result)
}

func (e *executor) runOne(ctx context.Context, l loaded, exOpts exercise.Options, printer *harness.Printer, seq *harness.Sequence) (ScenarioResult, error) {
	if l.err != nil {
		if printer != nil {
			fmt.Fprintf(e.out, "✗ %s\n  Load error: %v\n", l.name, l.err)
		}
		return ScenarioResult{
			Name:   l.name,
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", l.err)},
		}, nil
	}

	s := l.scenario
	ex, err := exercise.Lookup(s.Exercise, exOpts)
	if err != nil {
		if printer != nil {
			fmt.Fprintf(e.out, "✗ %s\n  %v\n", s.Name, err)
		}
		return ScenarioResult{
			Name:     s.Name,
			Exercise: s.Exercise,
			Errors:   []string{err.Error()},
		}, nil
	}

	if printer != nil {
		fmt.Fprintf(e.out, "== %s (%s)\n", s.Name, ex.Name())
	}
	e.logger.Debug("running scenario", "scenario", s.Name, "exercise", s.Exercise, "cases", len(s.Cases))

	res, err := harness.Run(ctx, s, ex, harness.Options{
		Printer:  printer,
		Logger:   e.logger,
		Sequence: seq,
	})
	if err != nil {
		return ScenarioResult{}, err
	}
	if printer != nil {
		printer.Summary(res)
	}

	sr := ScenarioResult{
		Name:     res.Scenario,
		Exercise: res.Exercise,
		Pass:     res.Pass,
		Passed:   res.Passed,
		Failed:   res.Failed,
		Outcomes: res.Outcomes,
	}
	if e.store != nil {
		id, err := e.record(ctx, res)
		if err != nil {
			return ScenarioResult{}, err
		}
		sr.RunID = id
	}
	return sr, nil
}

func (e *executor) record(ctx context.Context, res *harness.Result) (string, error) {
	outcomes := make([]store.Outcome, len(res.Outcomes))
	for i, o := range res.Outcomes {
		outcomes[i] = store.Outcome{
			CaseIndex: o.Index,
			Input:     o.Input,
			Expected:  o.Expected,
			Output:    o.Output,
			Verdict:   string(o.Verdict),
			Message:   o.Message,
		}
	}
	run, err := e.store.WriteRun(ctx, store.Run{
		Scenario:     res.Scenario,
		Exercise:     res.Exercise,
		ScenarioHash: res.ScenarioHash,
		Seed:         e.seed,
		Passed:       res.Passed,
		Failed:       res.Failed,
	}, outcomes)
	if err != nil {
		return "", fmt.Errorf("record %s: %w", res.Scenario, err)
	}
	e.logger.Debug("run recorded", "scenario", res.Scenario, "id", run.ID, "seq", run.Seq)
	return run.ID, nil
}

func outputRunJSON(w io.Writer, result RunResult) error {
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := writeFailed(w, result, "E_SCENARIO_FAILED", msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return writeOK(w, result)
}

func outputRunText(w io.Writer, result RunResult) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// commandContext returns cmd's context, or a background context when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
