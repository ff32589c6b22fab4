package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nicheshunter/nicheshunter/bootstrap"
	"github.com/nicheshunter/nicheshunter/config"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Niches Hunter API server.

The server will:
  - Load configuration from nicheshunter.yaml (or --config)
  - Or load configuration from NICHES_* environment variables
  - Run database migrations
  - Serve the catalog, tools and billing endpoints

Environment variables (for Docker deployments):
  NICHES_DATABASE_DSN       - Database path (default: nicheshunter.db)
  NICHES_SERVER_PORT        - Server port (default: 8080)
  NICHES_BILLING_MODE       - Billing mode: stripe, fake, none
  NICHES_LOG_LEVEL          - Log level: debug, info, warn, error

Examples:
  nicheshunter serve
  nicheshunter serve --config /etc/nicheshunter/config.yaml
  nicheshunter serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	var app *bootstrap.App
	var err error

	hasConfigFile := false
	if _, statErr := os.Stat(cfgFile); statErr == nil {
		hasConfigFile = true
	}

	if hotReload && hasConfigFile {
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return loadErr
		}
		app, err = bootstrap.New(cfg)
	}
	if err != nil {
		return err
	}

	return app.Run()
}
