package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/tasktrack/internal/config"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/existflow/tasktrack/internal/tui"
	"github.com/existflow/tasktrack/internal/view"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	// appConfig is loaded before every command runs
	appConfig = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "TaskTrack - personal task tracker with timers",
	Long: `TaskTrack keeps a list of tasks with deadlines, date ranges,
weekly repetition and a per-task work timer.

Run 'tasktrack' without arguments to launch the interactive TUI.
When output is not a terminal the task list is printed instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		if err := logger.Init(cfg.Logger()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.Err(err))
			}
		}

		appConfig = cfg
		logger.Info("TaskTrack started", logger.F("command", cmd.Name()))
		return nil
	},
	RunE: runRoot,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("TaskTrack exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		tasks := view.Sort(a.store.Tasks(), view.SortCreated, appConfig.Language())
		printTasks(cmd.OutOrStdout(), tasks)
		return nil
	}

	timers := timer.NewRegistry(a.store)
	defer timers.Close()
	unbind := timers.Bind(a.store)
	defer unbind()

	a.store.Start()

	logger.Info("Launching TUI")
	m := tui.NewModel(a.store, timers, appConfig)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.Err(err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	pauseRunning(a.store.Tasks(), timers)
	logger.Info("TUI exited normally")
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
