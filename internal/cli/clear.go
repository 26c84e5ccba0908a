package cli

import (
	"fmt"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var clearForce bool

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearForce && !confirm(cmd, "Are you sure you want to delete every task?") {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	n := len(a.store.Tasks())
	a.store.Dispatch(reducer.ClearAll{})
	logger.Info("Tasks cleared", logger.F("count", n))

	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tasks.\n", n)
	return nil
}
