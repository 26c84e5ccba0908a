package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/model"
	"github.com/existflow/tasktrack/internal/reducer"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time spent on a task",
}

var timerStartCmd = &cobra.Command{
	Use:   "start [id]",
	Short: "Run the timer in the foreground until Ctrl+C",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStart,
}

var timerResetCmd = &cobra.Command{
	Use:   "reset [id]",
	Short: "Set elapsed time back to zero",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerReset,
}

var timerSetCmd = &cobra.Command{
	Use:   "set [id] [seconds|duration]",
	Short: "Set elapsed time, e.g. 5400 or 1h30m",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimerSet,
}

func init() {
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerResetCmd)
	timerCmd.AddCommand(timerSetCmd)
}

// pauseRunning pauses every running timer so its last value is stored
func pauseRunning(tasks []model.Task, timers *timer.Registry) {
	for _, t := range tasks {
		if timers.State(t.ID) == timer.Running {
			timers.Pause(t.ID)
		}
	}
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTask(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}

	timers := timer.NewRegistry(a.store)
	defer timers.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := timers.Get(task.ID, task.ElapsedTime)
	t.Start()
	logger.Info("Timer started", logger.F("id", task.ID), logger.F("elapsed", task.ElapsedTime))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Timing %s, press Ctrl+C to stop\n", titleStyle(task.Title))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		fmt.Fprintf(out, "\r%s ", view.FormatElapsed(t.Elapsed()))
		select {
		case <-ticker.C:
		case <-ctx.Done():
			timers.Pause(task.ID)
			elapsed := t.Elapsed()
			logger.Info("Timer paused", logger.F("id", task.ID), logger.F("elapsed", elapsed))
			fmt.Fprintf(out, "\rPaused at %s\n", view.FormatElapsed(elapsed))
			return nil
		}
	}
}

func runTimerReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTask(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	a.store.Dispatch(reducer.ResetTimer{ID: task.ID})
	fmt.Fprintf(cmd.OutOrStdout(), "Timer reset: %s\n", task.Title)
	return nil
}

func runTimerSet(cmd *cobra.Command, args []string) error {
	elapsed, err := parseElapsed(args[1])
	if err != nil {
		return err
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := resolveTask(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	a.store.Dispatch(reducer.UpdateTimer{ID: task.ID, Elapsed: elapsed})
	fmt.Fprintf(cmd.OutOrStdout(), "Timer set: %s %s\n", task.Title, view.FormatElapsed(elapsed))
	return nil
}

// parseElapsed accepts whole seconds or a Go duration
func parseElapsed(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid elapsed time %q", s)
	}
	return int64(d / time.Second), nil
}
