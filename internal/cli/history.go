package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qkata/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// RunDetail is one stored run with its outcomes.
type RunDetail struct {
	store.Run
	Outcomes []store.Outcome `json:"outcomes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `Show runs recorded with --db, newest first, or the cases of one run.

Examples:
  qkata history --db ./qkata.db
  qkata history --db ./qkata.db --limit 5
  qkata history --db ./qkata.db 6f1c...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "history needs --db")
	}
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := st.ReadRun(ctx, args[0])
		if errors.Is(err, store.ErrRunNotFound) {
			return WrapExitError(ExitCommandError, "unknown run", err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		outcomes, err := st.ReadOutcomes(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read outcomes", err)
		}

		if opts.Format == "json" {
			return writeOK(w, RunDetail{Run: run, Outcomes: outcomes})
		}
		printRun(w, run)
		for _, o := range outcomes {
			fmt.Fprintf(w, "  case %d %-14s input=%s", o.CaseIndex, o.Verdict, o.Input)
			if o.Message != "" {
				fmt.Fprintf(w, " (%s)", o.Message)
			}
			fmt.Fprintln(w)
		}
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return writeOK(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		printRun(w, run)
	}
	return nil
}

func printRun(w io.Writer, run store.Run) {
	status := "PASS"
	if run.Failed > 0 {
		status = "FAIL"
	}
	fmt.Fprintf(w, "#%d %s %s %s (%s): %d passed, %d failed, seed %d\n",
		run.Seq, run.ID, status, run.Scenario, run.Exercise, run.Passed, run.Failed, run.Seed)
}
