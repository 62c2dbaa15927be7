package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/ports/primary"
	"github.com/example/crudkit/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var model string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scaffold runs",
		Long: `List scaffold runs recorded in the history database, newest first.
Dry runs are never recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.History(cmd.Context(), primary.RunFilters{Model: model, Limit: limit})
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Only show runs for this model")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 for all)")

	return cmd
}
