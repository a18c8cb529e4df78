package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/analyze"
	"github.com/ppiankov/heapwatch/internal/config"
	"github.com/ppiankov/heapwatch/internal/model"
	"github.com/ppiankov/heapwatch/internal/parse"
	"github.com/ppiankov/heapwatch/internal/query"
)

var (
	analyzeHeapID     string
	analyzeWhere      string
	analyzeClockHz    uint64
	analyzeMaxSeconds float64
	analyzeFormat     string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeHeapID, "heap", "", "Analyze only this heap ID")
	analyzeCmd.Flags().StringVar(&analyzeWhere, "where", "", "Interval filter, e.g. 'duration_seconds > 10 && size >= 64'")
	analyzeCmd.Flags().Uint64Var(&analyzeClockHz, "clock-hz", 0, "Device clock frequency override")
	analyzeCmd.Flags().Float64Var(&analyzeMaxSeconds, "max-seconds", 0, "Session horizon override in seconds")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text|json)")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <trace-file>",
	Short: "Analyze a reconciled heap trace",
	Long: "Parses an ALLO/FREE trace, pairs allocations with releases per heap,\n" +
		"and reports occupancy, peaks, leftovers, and anomalies.\n\n" +
		"Pass - to read the trace from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rep, _, err := loadAndRun(cmd, args[0], analyzeHeapID, analyzeWhere,
		analyzeClockHz, analyzeMaxSeconds)
	if err != nil {
		return err
	}

	switch analyzeFormat {
	case "json":
		out, err := analyze.FormatJSON(rep)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(analyze.FormatText(rep))
	}
	return nil
}

// loadAndRun parses a trace and runs the analysis pipeline with the
// effective settings. Shared by analyze, export, diff, and watch.
func loadAndRun(cmd *cobra.Command, path, heapID, where string, clockHz uint64, maxSeconds float64) (*analyze.Report, *config.Config, error) {
	cfg, err := effectiveConfig(cmd, clockHz, maxSeconds)
	if err != nil {
		return nil, nil, err
	}

	var filter *query.Filter
	if where != "" {
		filter, err = query.Compile(where)
		if err != nil {
			return nil, nil, err
		}
	}

	var ts *model.TraceSet
	source := path
	if path == "-" {
		source = "stdin"
		ts, err = parse.Log(os.Stdin, heapID)
	} else {
		ts, err = parse.LogFile(path, heapID)
	}
	if err != nil {
		return nil, nil, err
	}

	rep, err := analyze.Run(ts, analyze.Params{
		Source:  source,
		ClockHz: cfg.ClockHz,
		Horizon: cfg.HorizonTicks(),
		Where:   filter,
	})
	if err != nil {
		return nil, nil, err
	}
	return rep, cfg, nil
}
