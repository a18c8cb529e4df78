package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/export"
)

var (
	exportHeapID     string
	exportDir        string
	exportClockHz    uint64
	exportMaxSeconds float64
	exportFormat     string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportHeapID, "heap", "", "Export only this heap ID")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "views", "Directory to write view files into")
	exportCmd.Flags().Uint64Var(&exportClockHz, "clock-hz", 0, "Device clock frequency override")
	exportCmd.Flags().Float64Var(&exportMaxSeconds, "max-seconds", 0, "Session horizon override in seconds")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "View file format (csv|json)")
}

var exportCmd = &cobra.Command{
	Use:   "export <trace-file>",
	Short: "Write timeline and lifetime view files",
	Long: "Analyzes a trace and writes per-heap occupancy timeline and block\n" +
		"lifetime files for plotting frontends.",
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	rep, cfg, err := loadAndRun(cmd, args[0], exportHeapID, "", exportClockHz, exportMaxSeconds)
	if err != nil {
		return err
	}

	paths, err := export.Write(rep, export.Options{
		Dir:     exportDir,
		Format:  exportFormat,
		ClockHz: cfg.ClockHz,
	})
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
