package cli

import (
	"fmt"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done [id...]",
	Aliases: []string{"toggle"},
	Short:   "Toggle tasks between completed and active",
	Long: `Mark tasks as completed, or reopen tasks that are already completed.
A task can be referenced by any unique prefix of its ID.

Examples:
  tasktrack done 3f2a
  tasktrack done 3f2a 91bc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
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
		a.store.Dispatch(reducer.ToggleComplete{ID: task.ID})

		updated, _ := a.store.Task(task.ID)
		if updated.Status == model.StatusCompleted {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Completed: %s\n", completedStyle("✓"), updated.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened: %s (%s)\n", updated.Title, statusText(updated.Status))
		}
	}
	return nil
}
