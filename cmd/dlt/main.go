package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kydenul/dlt"
)

type options struct {
	configPath string
	logLevel   string
}

func main() {
	// .env is optional; values already in the environment take precedence
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dlt",
		Short:         "Super Lotto draw history, frequency stats and number suggestions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default: search config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newFetchCmd(opts),
		newStatsCmd(opts),
		newRecommendCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// setup loads config and builds the logger and engine shared by all commands
func setup(opts *options) (*dlt.ConfigManager, *dlt.Config, *dlt.DefaultLogger, *dlt.Engine, error) {
	cm := dlt.NewConfigManager()
	cm.SetConfigFile(opts.configPath)

	config, err := cm.LoadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	level := config.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := dlt.NewLogger(dlt.ParseLevel(level), os.Stderr)

	engine, err := dlt.NewEngineFromConfig(config, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("build engine: %w", err)
	}
	return cm, config, logger, engine, nil
}
