package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/ahp/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the AHP engine over HTTP",
	Long: `Start an HTTP API for computing weights, storing submissions and building consensus.

Endpoints:
  GET    /health
  GET    /metrics                    (or on --metrics-listen)
  GET    /api/v1/questionnaire
  POST   /api/v1/weights
  POST   /api/v1/submissions
  GET    /api/v1/submissions
  GET    /api/v1/submissions/{id}
  DELETE /api/v1/submissions/{id}
  GET    /api/v1/consensus?mode=aij|aip|both

Examples:
  ahp serve --listen :8080
  ahp serve --listen :8080 --metrics-listen :9090 --rate-limit 5`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		eventLogger = serverLogger()
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, cfg, storeManager, publisher, eventLogger)
	},
}

func serverLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
