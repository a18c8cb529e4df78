package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/capture"
)

var (
	splitOutDir string
	splitPrefix string
	splitCopies int
)

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVarP(&splitOutDir, "out-dir", "o", ".", "Directory to write copies into")
	splitCmd.Flags().StringVar(&splitPrefix, "prefix", "heap_operations", "Copy file name prefix")
	splitCmd.Flags().IntVar(&splitCopies, "copies", 0, "Expected transmission count override")
}

var splitCmd = &cobra.Command{
	Use:   "split <transcript>",
	Short: "Cut a cleaned transcript into its transmitted copies",
	Long: "Finds the transmission markers in a cleaned console transcript and\n" +
		"writes each retransmitted trace copy to its own file, ready for merge.",
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd, 0, 0)
	if err != nil {
		return err
	}
	copies := cfg.Copies
	if cmd.Flags().Changed("copies") {
		copies = splitCopies
	}

	paths, err := capture.SplitFile(args[0], splitOutDir, splitPrefix,
		cfg.TransmissionMarker, cfg.EndMarkers, copies)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
