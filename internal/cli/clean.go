package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/capture"
)

var cleanOut string

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOut, "out", "o", "", "Output path (default <input>.clean.<ext>)")
}

var cleanCmd = &cobra.Command{
	Use:   "clean <transcript>",
	Short: "Strip firmware noise from a console transcript",
	Long: "Copies a raw device console transcript, dropping the log lines the\n" +
		"firmware interleaves with the heap trace. Noise patterns come from\n" +
		"the config file.",
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd, 0, 0)
	if err != nil {
		return err
	}

	inPath := args[0]
	outPath := cleanOut
	if outPath == "" {
		outPath = deriveOut(inPath, "clean")
	}

	dropped, err := capture.CleanFile(inPath, outPath, cfg.NoisePatterns)
	if err != nil {
		return err
	}

	fmt.Printf("%s: dropped %d noise lines\n", outPath, dropped)
	return nil
}

// deriveOut inserts a tag before the extension: devtty.txt becomes
// devtty.clean.txt.
func deriveOut(path, tag string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + tag + ext
}
