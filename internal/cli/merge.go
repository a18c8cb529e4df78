package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/reconcile"
)

var mergeOut string

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "heap_operations_combined.txt", "Merged trace output path")
}

var mergeCmd = &cobra.Command{
	Use:   "merge <copy1> <copy2> [copy3...]",
	Short: "Merge trace copies by majority vote",
	Long: "Votes line by line across the retransmitted trace copies and writes\n" +
		"the reconciled log. A line with no majority across copies is fatal.",
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd, 0, 0)
	if err != nil {
		return err
	}

	res, err := reconcile.MergeFiles(args, cfg.Capacity, cfg.WarnRatio)
	if err != nil {
		return err
	}
	if err := res.WriteFile(mergeOut); err != nil {
		return err
	}

	if res.Resolved > 0 {
		fmt.Fprintf(os.Stderr, "merge: outvoted %d corrupted lines\n", res.Resolved)
	}
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", res.Warning)
	}
	fmt.Printf("%s: %d lines\n", mergeOut, len(res.Lines))
	return nil
}
