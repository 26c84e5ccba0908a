package cli

import (
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Re-derive statuses from today's date",
	Args:  cobra.NoArgs,
	RunE:  runRecompute,
}

func runRecompute(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.Dispatch(reducer.RecomputeStatuses{})
	printCounts(cmd.OutOrStdout(), view.Count(a.store.Tasks()))
	return nil
}
