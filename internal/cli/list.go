package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qkata/internal/exercise"
)

// ExerciseInfo describes one registered exercise.
type ExerciseInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HasTape     bool   `json:"has_tape"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List exercises",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	exercises := exercise.Registry(exercise.Options{})
	infos := make([]ExerciseInfo, len(exercises))
	for i, ex := range exercises {
		_, hasTape := ex.(exercise.Taper)
		infos[i] = ExerciseInfo{
			Name:        ex.Name(),
			Description: ex.Description(),
			HasTape:     hasTape,
		}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeOK(w, infos)
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%-22s %s\n", info.Name, info.Description)
	}
	return nil
}
