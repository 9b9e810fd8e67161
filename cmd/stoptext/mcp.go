package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/stoptext/internal/transport/mcp"
	"github.com/sandevgo/stoptext/pkg/log"
	"github.com/sandevgo/stoptext/pkg/srv"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the conversation engine as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout carries the protocol, so logs go to stderr as JSON
		var flushLog func()
		ctx, flushLog = log.NewContextWithOptions(ctx, log.Options{
			Debug: debug,
			JSON:  true,
			Out:   os.Stderr,
		})
		defer flushLog()

		a := newApp(ctx)
		server := mcp.NewServer(a.engine, a.resolver)
		services := append(a.services, server)

		srv.StartServices(ctx, a.services)
		err := server.Start(ctx)

		stop()
		srv.ShutdownServices(ctx, services, srv.DefaultShutdownTimeout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
