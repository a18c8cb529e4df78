package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/config"
)

var rootConfigPath string

var rootCmd = &cobra.Command{
	Use:   "heapwatch",
	Short: "Heap occupancy analysis for embedded device traces",
	Long: "Reconstructs memory occupancy timelines and per-block lifetimes from\n" +
		"allocation traces captured on device consoles. Covers the whole capture\n" +
		"workflow: cleaning transcripts, splitting retransmitted copies, merging\n" +
		"them by majority vote, and analyzing the reconciled trace.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "",
		"Path to config YAML (default ~/.heapwatch/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// effectiveConfig loads the configuration and applies the shared
// --clock-hz and --max-seconds flag overrides when the command set
// them.
func effectiveConfig(cmd *cobra.Command, clockHz uint64, maxSeconds float64) (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("clock-hz"); f != nil && f.Changed {
		cfg.ClockHz = clockHz
	}
	if f := cmd.Flags().Lookup("max-seconds"); f != nil && f.Changed {
		cfg.MaxPlotSeconds = maxSeconds
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
