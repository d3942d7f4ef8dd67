package main

import (
	"github.com/spf13/cobra"

	"meta-compactor/internal/tree"
)

var (
	scanFormat string
	scanPruned bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Index a directory and print the tree with checksums",
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
		if scanPruned {
			if _, err := tree.Prune(root, treeOptions(cfg, logger)...); err != nil {
				return err
			}
		}

		snapshot, err := tree.Snapshot(root)
		if err != nil {
			return err
		}
		return tree.Write(cmd.OutOrStdout(), snapshot, tree.Format(scanFormat))
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", string(tree.FormatJSON), "Output format (json, yaml)")
	scanCmd.Flags().BoolVarP(&scanPruned, "pruned", "p", false, "Replace duplicates with links before printing")
}
