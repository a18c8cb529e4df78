package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/scenario"
)

var (
	checkScenario   string
	checkClockHz    uint64
	checkMaxSeconds float64
	checkFormat     string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files (required)")
	checkCmd.Flags().Uint64Var(&checkClockHz, "clock-hz", 0, "Device clock frequency override")
	checkCmd.Flags().Float64Var(&checkMaxSeconds, "max-seconds", 0, "Session horizon override in seconds")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.MarkFlagRequired("scenario")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run trace assertions from scenario files",
	Long: "Loads scenario YAML files matching a glob pattern, analyzes each\n" +
		"inline trace, and checks the expected pairing and occupancy results.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.\n" +
		"Use in CI to pin analyzer behavior across releases.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	matches, err := filepath.Glob(checkScenario)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no scenario files match pattern: %s", checkScenario)
	}

	cfg, err := effectiveConfig(cmd, checkClockHz, checkMaxSeconds)
	if err != nil {
		return err
	}

	var results []*scenario.RunResult
	for _, path := range matches {
		r, err := scenario.LoadAndRun(path, cfg.ClockHz, cfg.HorizonTicks())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}

	switch checkFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	for _, r := range results {
		if r.Failed > 0 {
			os.Exit(1)
		}
	}
	return nil
}
