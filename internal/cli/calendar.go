package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show a month with the tasks on each day",
	Args:    cobra.NoArgs,
	RunE:    runCalendar,
}

var (
	calendarMonth    string
	calendarMaxTasks int
)

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "Month to show (YYYY-MM), current month by default")
	calendarCmd.Flags().IntVar(&calendarMaxTasks, "max", 3, "Tasks listed per day before eliding")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := cliClock.Now()
	year, month, err := parseMonth(calendarMonth, now)
	if err != nil {
		return err
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	printCalendar(cmd.OutOrStdout(), a.store.Tasks(), year, month, model.DateOf(now))
	return nil
}

// printCalendar renders a Sunday-first month grid
func printCalendar(w io.Writer, tasks []model.Task, year int, month time.Month, today model.Date) {
	days := view.MonthGrid(year, month)
	buckets := view.Buckets(tasks, days)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true
	t.SetTitle("%s %d", month, year)

	header := table.Row{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		header = append(header, text.FgGreen.Sprintf("%s", d.String()[:3]))
	}
	t.AppendHeader(header)

	for week := 0; week < len(days); week += 7 {
		row := table.Row{}
		for _, day := range days[week : week+7] {
			row = append(row, calendarCell(day, buckets[day], month, today))
		}
		t.AppendRow(row)
	}

	colConfigs := make([]table.ColumnConfig, 7)
	for i := range colConfigs {
		colConfigs[i] = table.ColumnConfig{Number: i + 1, WidthMax: 14}
	}
	t.SetColumnConfigs(colConfigs)
	t.Render()
}

func calendarCell(day model.Date, tasks []model.Task, month time.Month, today model.Date) string {
	t, _ := day.Time(time.UTC)
	label := fmt.Sprintf("%d", t.Day())
	switch {
	case day == today:
		label = text.Colors{text.Bold, text.FgHiCyan}.Sprint(label)
	case t.Month() != month:
		label = text.Faint.Sprint(label)
	}

	lines := []string{label}
	for i, task := range tasks {
		if i == calendarMaxTasks {
			lines = append(lines, fmt.Sprintf("+%d more", len(tasks)-i))
			break
		}
		title := task.Title
		if len(title) > 12 {
			title = title[:11] + "…"
		}
		if task.Status == model.StatusOverdue {
			title = text.FgHiRed.Sprint(title)
		} else if task.Status == model.StatusCompleted {
			title = text.CrossedOut.Sprint(title)
		}
		lines = append(lines, title)
	}
	return strings.Join(lines, "\n")
}
