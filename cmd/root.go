// Package cmd contains the CLI commands for EchoTube
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "echotube",
	Short: "EchoTube - Creator dashboard aggregation service",
	Long: `EchoTube aggregates a creator's channel metrics behind a cached
dashboard API: videos, comments, analytics and tiered hashtag
recommendations, with graceful degradation when the upstream
quota runs out.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newLogger builds a logger at the configured level.
func newLogger(level string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return logger, nil
}
