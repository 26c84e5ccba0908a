package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over a JSON HTTP API",
	Long: `Serve the task list over a JSON HTTP API under /api/v1.
Statuses are recomputed in the background while the server runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := appConfig.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.store, server.WithLanguage(appConfig.Language()))
	defer func() {
		_ = srv.Close()
	}()
	a.store.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Serving tasks on %s\n", addr)
	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("Server failed", logger.Err(err))
		return err
	}
	return nil
}
