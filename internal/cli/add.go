package cli

import (
	"fmt"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/validate"
	"github.com/spf13/cobra"
)

// cliClock decides what "today" is for date flags and validation
var cliClock clock.Clock = clock.Real{}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task.

Examples:
  tasktrack add "Buy groceries"
  tasktrack add "Write report" --deadline +3 --hours 2.5
  tasktrack add "Conference" --range --start 2024-06-10 --end 2024-06-12
  tasktrack add "Gym session" --repeat mon,wed,fri`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addDeadline    string
	addStart       string
	addEnd         string
	addRange       bool
	addRepeat      string
	addHours       float64
)

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Longer description (at least 10 characters)")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "Deadline (YYYY-MM-DD, today, tomorrow or +N)")
	addCmd.Flags().StringVar(&addStart, "start", "", "Day of a single-day task, or first day of a range")
	addCmd.Flags().StringVar(&addEnd, "end", "", "Last day of a range")
	addCmd.Flags().BoolVar(&addRange, "range", false, "Task spans --start to --end")
	addCmd.Flags().StringVarP(&addRepeat, "repeat", "r", "", "Repeat weekly on these days (e.g. mon,wed)")
	addCmd.Flags().Float64Var(&addHours, "hours", 0, "Hours allocated to the task")
}

// taskInput builds the input from add flags
func taskInput(cmd *cobra.Command, title string) (model.TaskInput, error) {
	now := cliClock.Now()
	in := model.TaskInput{
		Title:       title,
		Description: addDescription,
		TaskType:    model.TaskTypeSingleDay,
	}
	if addRange {
		in.TaskType = model.TaskTypeDateRange
	}

	var err error
	if in.Deadline, err = parseDateFlag(addDeadline, now); err != nil {
		return in, err
	}
	if in.StartDate, err = parseDateFlag(addStart, now); err != nil {
		return in, err
	}
	if in.EndDate, err = parseDateFlag(addEnd, now); err != nil {
		return in, err
	}
	if addRepeat != "" {
		in.IsRepetitive = true
		in.RepetitionDays = parseDays(addRepeat)
	}
	if cmd.Flags().Changed("hours") {
		h := addHours
		in.AllocatedHours = &h
	}
	return in, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := joinArgs(args)
	in, err := taskInput(cmd, title)
	if err != nil {
		return err
	}
	if errs := validate.Task(in, cliClock.Now()); !errs.Valid() {
		return printValidation(cmd.ErrOrStderr(), errs)
	}
	in.RepetitionDays = model.NormalizeWeekdays(in.RepetitionDays)

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task := a.store.Create(in)
	logger.Info("Task added", logger.F("id", task.ID))

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", titleStyle(task.Title), shortID(task.ID))
	return nil
}

func joinArgs(args []string) string {
	title := args[0]
	for _, arg := range args[1:] {
		title += " " + arg
	}
	return title
}
