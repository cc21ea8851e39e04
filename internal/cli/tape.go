package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qkata/internal/exercise"
	"github.com/roach88/qkata/scenarios"
)

// TapeResult is the rendered tape of one exercise input.
type TapeResult struct {
	Exercise    string   `json:"exercise"`
	Input       string   `json:"input"`
	Ops         []string `json:"ops"`
	Gates       []string `json:"gates"`
	Fingerprint string   `json:"fingerprint"`
}

// NewTapeCommand creates the tape command.
func NewTapeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tape <exercise> [input]",
		Short: "Show the instruction tape an exercise builds",
		Long: `Render the instruction tape of a representative circuit an exercise
builds for an input, with its content fingerprint.

Without an input, the first built-in case of the exercise is used.

Examples:
  qkata tape distance-oracle 3
  qkata tape noisy-qaoa
  qkata tape schrodinger-cat '[[1,0,0,0],[0,1,0,0],[0,0,0,1],[0,0,1,0]]' --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTape(rootOpts, args, cmd)
		},
	}
}

func runTape(opts *RootOptions, args []string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	name := args[0]

	ex, err := exercise.Lookup(name, exercise.Options{
		Seed:   opts.Seed,
		Logger: newLogger(opts, cmd.ErrOrStderr()),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find exercise", err)
	}
	taper, ok := ex.(exercise.Taper)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("exercise %q builds no circuit tape", name))
	}

	var input string
	if len(args) == 2 {
		input = args[1]
	} else {
		input, err = firstBuiltinInput(name)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to pick a default input", err)
		}
	}

	tape, err := taper.Tape(ctx, input)
	if err != nil {
		if errors.Is(err, exercise.ErrInvalidInput) {
			return WrapExitError(ExitCommandError, "invalid input", err)
		}
		return WrapExitError(ExitFailure, "failed to build tape", err)
	}

	result := TapeResult{
		Exercise:    name,
		Input:       input,
		Ops:         strings.Split(strings.TrimSuffix(tape.String(), "\n"), "\n"),
		Gates:       tape.NameSet(),
		Fingerprint: tape.Fingerprint(),
	}
	if tape.Len() == 0 {
		result.Ops = []string{}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeOK(w, result)
	}
	fmt.Fprintf(w, "Exercise: %s\n", result.Exercise)
	fmt.Fprintf(w, "Input: %s\n\n", result.Input)
	for _, line := range result.Ops {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nOps: %d\n", tape.Len())
	fmt.Fprintf(w, "Gates: %s\n", strings.Join(result.Gates, ", "))
	fmt.Fprintf(w, "Fingerprint: %s\n", result.Fingerprint)
	return nil
}

func firstBuiltinInput(name string) (string, error) {
	list, err := loadBuiltin(scenarios.FS, []string{name})
	if err != nil {
		return "", err
	}
	for _, l := range list {
		if len(l.scenario.Cases) > 0 {
			return l.scenario.Cases[0].Input, nil
		}
	}
	return "", fmt.Errorf("no built-in case for %s", name)
}
