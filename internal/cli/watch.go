package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/heapwatch/internal/analyze"
	"github.com/ppiankov/heapwatch/internal/watch"
)

var (
	watchHeapID     string
	watchWhere      string
	watchClockHz    uint64
	watchMaxSeconds float64
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchHeapID, "heap", "", "Analyze only this heap ID")
	watchCmd.Flags().StringVar(&watchWhere, "where", "", "Interval filter expression")
	watchCmd.Flags().Uint64Var(&watchClockHz, "clock-hz", 0, "Device clock frequency override")
	watchCmd.Flags().Float64Var(&watchMaxSeconds, "max-seconds", 0, "Session horizon override in seconds")
}

var watchCmd = &cobra.Command{
	Use:   "watch <trace-file>",
	Short: "Re-analyze a trace whenever it changes",
	Long: "Prints the analysis report and reruns it each time the trace file is\n" +
		"rewritten, so the report stays live while captures come off the device.\n" +
		"Stop with Ctrl-C.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	rerun := func() {
		rep, _, err := loadAndRun(cmd, path, watchHeapID, watchWhere,
			watchClockHz, watchMaxSeconds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			return
		}
		fmt.Print(analyze.FormatText(rep))
	}

	// First report before waiting for changes; a broken trace here is
	// fatal rather than a retry loop.
	rep, _, err := loadAndRun(cmd, path, watchHeapID, watchWhere,
		watchClockHz, watchMaxSeconds)
	if err != nil {
		return err
	}
	fmt.Print(analyze.FormatText(rep))

	w, err := watch.New(path, rerun)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping watch...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "watching %s for changes\n", path)
	return w.Run(ctx)
}
