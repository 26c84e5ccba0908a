package cli

import (
	"fmt"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/validate"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a task",
	Long: `Edit a task. Only the flags given are changed; pass an empty
value to clear a date or stop repetition.

Examples:
  tasktrack edit 3f2a --title "Write final report"
  tasktrack edit 3f2a --deadline ""
  tasktrack edit 3f2a --type date-range --start today --end +2`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editDeadline    string
	editStart       string
	editEnd         string
	editType        string
	editRepeat      string
	editHours       float64
)

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVar(&editDeadline, "deadline", "", "Deadline (YYYY-MM-DD, today, tomorrow or +N)")
	editCmd.Flags().StringVar(&editStart, "start", "", "Start date")
	editCmd.Flags().StringVar(&editEnd, "end", "", "End date")
	editCmd.Flags().StringVar(&editType, "type", "", "single-day or date-range")
	editCmd.Flags().StringVarP(&editRepeat, "repeat", "r", "", "Repeat on these days, empty to stop repeating")
	editCmd.Flags().Float64Var(&editHours, "hours", 0, "Hours allocated to the task")
}

// taskPatch builds a patch from the flags that were given
func taskPatch(cmd *cobra.Command) (model.TaskPatch, error) {
	var p model.TaskPatch
	now := cliClock.Now()
	flags := cmd.Flags()

	if flags.Changed("title") {
		p.Title = &editTitle
	}
	if flags.Changed("description") {
		p.Description = &editDescription
	}
	dates := []struct {
		flag  string
		value string
		dst   **model.Date
	}{
		{"deadline", editDeadline, &p.Deadline},
		{"start", editStart, &p.StartDate},
		{"end", editEnd, &p.EndDate},
	}
	for _, d := range dates {
		if !flags.Changed(d.flag) {
			continue
		}
		date, err := parseDateFlag(d.value, now)
		if err != nil {
			return p, err
		}
		*d.dst = &date
	}
	if flags.Changed("type") {
		tt := model.TaskType(editType)
		if tt != model.TaskTypeSingleDay && tt != model.TaskTypeDateRange {
			return p, fmt.Errorf("invalid type %q, expected single-day or date-range", editType)
		}
		p.TaskType = &tt
	}
	if flags.Changed("repeat") {
		days := parseDays(editRepeat)
		repeating := len(days) > 0
		p.IsRepetitive = &repeating
		p.RepetitionDays = &days
	}
	if flags.Changed("hours") {
		h := editHours
		p.AllocatedHours = &h
	}
	return p, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	patch, err := taskPatch(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change, see 'tasktrack edit --help'")
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := resolveTask(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	if errs := validate.Patch(current, patch, cliClock.Now()); !errs.Valid() {
		return printValidation(cmd.ErrOrStderr(), errs)
	}
	if patch.RepetitionDays != nil {
		days := model.NormalizeWeekdays(*patch.RepetitionDays)
		patch.RepetitionDays = &days
	}

	a.store.Dispatch(reducer.Update{ID: current.ID, Patch: patch})
	logger.Info("Task updated", logger.F("id", current.ID))

	updated, _ := a.store.Task(current.ID)
	printTask(cmd.OutOrStdout(), updated)
	return nil
}
