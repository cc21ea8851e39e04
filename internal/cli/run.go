package cli

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/qkata/internal/exercise"
	"github.com/roach88/qkata/internal/harness"
	"github.com/roach88/qkata/scenarios"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [exercise...]",
		Short: "Run the built-in public cases",
		Long: `Run the built-in public test cases of every exercise, or only the
named exercises.

Exit codes:
  0 - Every case was correct
  1 - At least one case was Wrong Answer or Runtime Error
  2 - Command error (unknown exercise, database error, etc.)

Examples:
  qkata run
  qkata run distance-oracle schrodinger-cat
  qkata run noisy-qaoa --seed 7 --db ./qkata.db
  qkata run --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuiltin(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runBuiltin(opts *RootOptions, names []string, cmd *cobra.Command) error {
	for _, name := range names {
		if !slices.Contains(exercise.Names(), name) {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("unknown exercise %q: must be one of %v", name, exercise.Names()))
		}
	}

	loadedScenarios, err := loadBuiltin(scenarios.FS, names)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load built-in scenarios", err)
	}

	e, err := newExecutor(opts, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return e.execute(ctx, loadedScenarios)
}

// loadBuiltin parses every scenario in fsys, keeping those whose exercise
// is in names (all of them when names is empty), in exercise registry
// order.
func loadBuiltin(fsys fs.FS, names []string) ([]loaded, error) {
	paths, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	var out []loaded
	for _, path := range paths {
		s, err := harness.LoadScenarioFS(fsys, path)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 && !slices.Contains(names, s.Exercise) {
			continue
		}
		out = append(out, loaded{name: s.Name, scenario: s})
	}

	order := exercise.Names()
	slices.SortStableFunc(out, func(a, b loaded) int {
		return slices.Index(order, a.scenario.Exercise) - slices.Index(order, b.scenario.Exercise)
	})
	return out, nil
}
