package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meta-compactor/internal/config"
	"meta-compactor/internal/logging"
	"meta-compactor/internal/tree"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "meta-compactor",
	Short:         "Find byte-identical files in a directory tree and collapse them into reversible markers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	rootCmd.AddCommand(scanCmd, statsCmd, verifyCmd)
}

// setup loads the config and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return cfg, logger, nil
}

func treeOptions(cfg *config.Config, logger *zap.Logger) []tree.Option {
	return []tree.Option{
		tree.WithHash(cfg.Algorithm()),
		tree.WithBlockSize(cfg.BlockSize),
		tree.WithExclude(cfg.Exclude),
		tree.WithLogger(logger),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
