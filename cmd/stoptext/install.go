package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/service/installer"
	"github.com/sandevgo/stoptext/pkg/log"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure stoptext interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		// run wizard (includes save step)
		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'stoptext start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
