package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/echotube/echotube/pkg/server"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	serveCfgFile string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the EchoTube dashboard service",
	Long:  `Runs the dashboard API together with the background refresh worker.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveCfgFile, "config", "config.yaml", "config file (default is config.yaml)")
}

func loadConfigFromFile(file string) (*server.Config, error) {
	if file == "" {
		file = "config.yaml"
	}

	config, err := server.NewConfig()
	if err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file) //nolint:gosec // User-provided config file path
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := loadConfigFromFile(serveCfgFile)
	if err != nil {
		return err
	}

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
