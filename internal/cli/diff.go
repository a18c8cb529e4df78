package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/analyze"
)

var (
	diffHeapID     string
	diffClockHz    uint64
	diffMaxSeconds float64
	diffFormat     string
)

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVar(&diffHeapID, "heap", "", "Compare only this heap ID")
	diffCmd.Flags().Uint64Var(&diffClockHz, "clock-hz", 0, "Device clock frequency override")
	diffCmd.Flags().Float64Var(&diffMaxSeconds, "max-seconds", 0, "Session horizon override in seconds")
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text|json)")
}

var diffCmd = &cobra.Command{
	Use:   "diff <old-trace> <new-trace>",
	Short: "Compare two traces heap by heap",
	Long: "Analyzes two traces with the same settings and reports heaps whose\n" +
		"event counts, pairing, peaks, or final occupancy changed. Exit code 1\n" +
		"when the runs differ, for use in firmware CI.",
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, _, err := loadAndRun(cmd, args[0], diffHeapID, "", diffClockHz, diffMaxSeconds)
	if err != nil {
		return err
	}
	after, _, err := loadAndRun(cmd, args[1], diffHeapID, "", diffClockHz, diffMaxSeconds)
	if err != nil {
		return err
	}

	d := analyze.Diff(before, after)

	switch diffFormat {
	case "json":
		out, err := analyze.FormatDiffJSON(d)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(analyze.FormatDiffText(d))
	}

	if d.Changed() {
		os.Exit(1)
	}
	return nil
}
