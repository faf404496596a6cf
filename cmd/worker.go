package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/echotube/echotube/pkg/api"
	"github.com/echotube/echotube/pkg/server"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	workerCfgFile string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start a standalone refresh worker",
	Long: `Runs only the background refresh worker, consuming deferred cache
refresh tasks without serving the dashboard API.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().StringVar(&workerCfgFile, "config", "config.yaml", "config file (default is config.yaml)")
}

func runWorker(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := loadConfigFromFile(workerCfgFile)
	if err != nil {
		return err
	}

	// Worker-only process; the API stays off regardless of config
	config.API = &api.Config{Enabled: false}

	logger, err := newLogger(config.Logging)
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded")

	ctx := context.Background()

	srv, err := server.NewServer(ctx, logger, config)
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}
