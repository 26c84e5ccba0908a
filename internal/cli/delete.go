package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

// confirm asks a yes/no question on the command's streams
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)
	var response string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, ref := range args {
		task, err := resolveTask(a.store.Tasks(), ref)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", errorStyle("✗"), err)
			continue
		}
		if !deleteForce && appConfig.ConfirmDelete &&
			!confirm(cmd, fmt.Sprintf("Delete %q?", task.Title)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Skipped.")
			continue
		}
		a.store.Dispatch(reducer.Delete{ID: task.ID})
		logger.Info("Task deleted", logger.F("id", task.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", task.Title)
	}
	return nil
}
