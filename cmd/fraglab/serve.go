package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/jackzampolin/fraglab/docs/swagger"
	"github.com/jackzampolin/fraglab/internal/server"
)

var (
	serveHost string
	servePort string
	serveWait bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fraglab server",
	Long: `Start the fraglab HTTP server.

The server holds one composition session and forwards submissions to the
Analysis Service configured at analysis.base_url. Run reports are saved
under the home directory.

The server provides:
  - /health and /status            - Server and Analysis Service status
  - /api/source, /api/structure    - Load a source and edit its structure
  - /api/submit, /api/analyze      - Analysis Service calls
  - /api/runs                      - Saved run reports
  - /swagger/                      - API documentation

Examples:
  fraglab serve                    # Start on 127.0.0.1:8090
  fraglab serve --port 3000        # Start on custom port
  fraglab serve --host 0.0.0.0     # Bind to all interfaces
  fraglab serve --wait             # Wait for the Analysis Service first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger(os.Stdout)
		if err != nil {
			return err
		}

		h, err := getHome()
		if err != nil {
			return err
		}

		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfgMgr.SetLogger(logger)
		if cfgMgr.File() != "" {
			cfgMgr.WatchConfig()
			logger.Info("watching config", "file", cfgMgr.File())
		}

		srv, err := server.New(server.Config{
			Host:            serveHost,
			Port:            servePort,
			Home:            h,
			ConfigManager:   cfgMgr,
			WaitForAnalysis: serveWait,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")
	serveCmd.Flags().BoolVar(&serveWait, "wait", false, "Wait for the Analysis Service before serving")

	rootCmd.AddCommand(serveCmd)
}
