package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meta-compactor/internal/config"
	"meta-compactor/internal/tree"
)

var statsCmd = &cobra.Command{
	Use:   "stats <directory>",
	Short: "Report how many files are duplicates and how much space apply would reclaim",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		root, err := indexAndWarm(cmd, args[0], cfg, logger)
		if err != nil {
			return err
		}
		if _, err := tree.Prune(root, treeOptions(cfg, logger)...); err != nil {
			return err
		}

		s := tree.Collect(root)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directories: %d\n", s.Directories)
		fmt.Fprintf(out, "Unique files: %d\n", s.Files)
		fmt.Fprintf(out, "Duplicates:   %d (%s)\n", s.Links, humanize.IBytes(uint64(s.LinkedBytes)))
		if r := s.Reclaimable(); r > 0 {
			fmt.Fprintf(out, "Reclaimable:  %s\n", humanize.IBytes(uint64(r)))
		} else {
			fmt.Fprintf(out, "Reclaimable:  0 B\n")
		}
		return nil
	},
}

// indexAndWarm indexes dir and, when workers are configured, hashes every
// file up front.
func indexAndWarm(cmd *cobra.Command, dir string, cfg *config.Config, logger *zap.Logger) (*tree.Directory, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := tree.IndexDirectory(abs, treeOptions(cfg, logger)...)
	if err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		if err := tree.Warm(cmd.Context(), root, cfg.Workers); err != nil {
			return nil, err
		}
	}
	return root, nil
}
