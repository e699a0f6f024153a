// internal/commands/serve.go
package calview

import (
	"github.com/fatih/color"
	"github.com/mwiater/calview/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd runs the dashboard as a web page that re-renders on every request.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	Long: `Start a web server that renders the dashboard on each request. Select metrics
in the page (or with ?metric=a&metric=b); the input tables are reloaded for
every request. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		addr := serveAddr
		if !cmd.Flags().Changed("addr") {
			addr = cfg.ListenAddress()
		}

		srv := server.New(server.Options{
			Addr:           addr,
			ReadTimeout:    cfg.ReadTimeout(),
			Paths:          cfg.InputPaths(),
			DefaultMetrics: cfg.DefaultMetricNames(),
		})
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Dashboard listening on %s\n", addr)
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "Listen address")
	rootCmd.AddCommand(serveCmd)
}
