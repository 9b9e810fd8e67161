package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
	"github.com/sandevgo/stoptext/pkg/srv"
)

var locality string

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address once and print where it landed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer func() {
			for i := len(a.services) - 1; i >= 0; i-- {
				if err := a.services[i].Shutdown(ctx); err != nil {
					log.FromCtx(ctx).Warn().Err(err).Msgf("%T failed to shutdown", a.services[i])
				}
			}
		}()
		srv.StartServices(ctx, a.services)

		coord, err := a.resolver.Resolve(ctx, core.AddressQuery{
			Line1: strings.Join(args, " "),
			Line2: locality,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%.6f, %.6f (%s, quality %.0f)\n", coord.Lat, coord.Lon, coord.Service, coord.Quality)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().StringVarP(&locality, "locality", "l", "", "city and state, defaults to the home locality")
	rootCmd.AddCommand(geocodeCmd)
}
