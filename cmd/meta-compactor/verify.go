package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meta-compactor/internal/roundtrip"
)

var verifyKeep bool

var verifyCmd = &cobra.Command{
	Use:   "verify <directory>",
	Short: "Round-trip a scratch copy of a directory through prune, apply and restore",
	Long: `verify copies the directory next to itself, replaces duplicates in the copy
with markers, restores them again and checks that the copy is byte-identical
to the original. The original directory is only read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		res, err := roundtrip.Run(cmd.Context(), args[0], roundtrip.Options{
			Config:   cfg,
			Logger:   logger,
			Keep:     verifyKeep,
			Progress: os.Stderr,
		})
		if err != nil {
			color.New(color.FgRed, color.Bold).Fprintln(cmd.ErrOrStderr(), "✗ round trip failed")
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen, color.Bold).Fprintln(out, "✓ round trip succeeded")
		fmt.Fprintf(out, "  Links:     %d\n", res.Stats.Links)
		fmt.Fprintf(out, "  Rewritten: %d\n", res.Rewritten)
		fmt.Fprintf(out, "  Restored:  %d\n", res.Restored)
		if verifyKeep {
			fmt.Fprintf(out, "  Scratch:   %s\n", res.Scratch)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVarP(&verifyKeep, "keep", "k", false, "Keep the scratch copy")
}
