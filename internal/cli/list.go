package cli

import (
	"github.com/existflow/tasktrack/internal/view"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally filtered by status and search text.

Examples:
  tasktrack list
  tasktrack list --status overdue
  tasktrack list --sort deadline --search report`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show every field of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	listStatus string
	listSort   string
	listSearch string
)

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "all", "Filter by status (all, active, completed, overdue)")
	listCmd.Flags().StringVar(&listSort, "sort", "createdAt", "Sort by createdAt, deadline or title")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Only tasks whose title or description contains text")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := view.ParseStatusFilter(listStatus)
	if err != nil {
		return err
	}
	key, err := view.ParseSortKey(listSort)
	if err != nil {
		return err
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := view.Search(a.store.Tasks(), listSearch)
	printTasks(cmd.OutOrStdout(), view.FilterSort(tasks, filter, key, appConfig.Language()))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTask(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	printTask(cmd.OutOrStdout(), task)
	return nil
}
