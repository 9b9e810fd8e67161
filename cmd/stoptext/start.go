package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/stoptext/pkg/log"
	"github.com/sandevgo/stoptext/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the stoptext services",
	Long:  `Initializes and starts all configured gateways (Twilio webhook, Telegram, CLI) and background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting stoptext")

		a := newApp(ctx)
		transports, err := initTransports(ctx, a.cfg, a.engine)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize transports")
		}
		services := append(a.services, transports...)

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, srv.DefaultShutdownTimeout)
		logger.Info().Msg("stoptext has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
