package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"watchq/internal/watch"
)

var stdoutIsTTY = isatty.IsTerminal(os.Stdout.Fd())

var (
	flagUsers     []string
	flagClusters  []int
	flagFiles     []string
	flagBatches   []string
	flagCollector string
	flagSchedd    string

	flagExit    []string
	flagGroupBy string

	flagTable       bool
	flagProgress    bool
	flagRowProgress bool
	flagSummary     bool
	flagSummaryType string
	flagUpdatedAt   bool
	flagAbbreviate  bool
	flagColor       bool
	flagRefresh     bool
	flagDag         bool

	flagConfig string
	flagDebug  bool
)

// exitCode is what main hands to os.Exit after Execute returns cleanly.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "watchq",
	Short: "Track the status of batch jobs over time without repeatedly querying the schedd",
	Long: `watchq tracks the status of jobs by following their event logs.

If no users, cluster ids, event logs, or batch names are given, watchq
defaults to tracking all of the current user's jobs.

By default, watchq never exits on its own (unless it encounters an error or
it is not tracking any jobs). Exit conditions can make it stop: for example,
to exit with status 0 when all tracked jobs are done or with status 1 when
any job is held, run

    watchq --exit all,done,0 --exit any,held,1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, opts, ok, err := setup()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		defer tr.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		code, err := watch.Run(ctx, tr, opts)
		if err != nil {
			return err
		}
		exitCode = code
		return nil
	},
}

func init() {
	// Persistent so the tui subcommand shares the whole flag surface.
	f := rootCmd.PersistentFlags()

	f.StringSliceVar(&flagUsers, "users", nil, "Which users to track")
	f.IntSliceVar(&flagClusters, "clusters", nil, "Which cluster IDs to track")
	f.StringSliceVar(&flagFiles, "files", nil, "Which event logs to track")
	f.StringSliceVar(&flagBatches, "batches", nil, "Which batch names to track")
	f.StringVar(&flagCollector, "collector", "", "Which collector to contact to find the schedd, if needed")
	f.StringVar(&flagSchedd, "schedd", "", "Which schedd to contact for queries, if needed")

	f.StringArrayVar(&flagExit, "exit", nil,
		"Exit condition GROUPER,JOB_STATUS[,EXIT_STATUS]; GROUPER is one of all, any, none and JOB_STATUS is one of active, done, idle, held. May be repeated.")
	f.StringVar(&flagGroupBy, "groupby", "", "Group jobs by batch, log, or cluster (default batch)")

	f.BoolVar(&flagTable, "table", true, "Show the status table")
	f.BoolVar(&flagProgress, "progress", true, "Show the progress bar")
	f.BoolVar(&flagRowProgress, "row-progress", true, "Show a progress bar for each row")
	f.BoolVar(&flagSummary, "summary", true, "Show the summary line")
	f.StringVar(&flagSummaryType, "summary-type", "", "Summary style: totals or percentages (default totals)")
	f.BoolVar(&flagUpdatedAt, "updated-at", true, `Show the "updated at" line`)
	f.BoolVar(&flagAbbreviate, "abbreviate", false, "Abbreviate path components to the shortest somewhat-unique prefix")
	f.BoolVar(&flagColor, "color", stdoutIsTTY, "Colorize the output (defaults to on when stdout is a tty)")
	f.BoolVar(&flagRefresh, "refresh", stdoutIsTTY, "Redraw in place instead of appending (defaults to on when stdout is a tty)")
	f.BoolVar(&flagDag, "dag", false, "Group jobs under the DAG they belong to")

	f.StringVar(&flagConfig, "config", "", "Path to the YAML defaults file")
	f.BoolVar(&flagDebug, "debug", false, "Print full detail for unhandled errors")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if flagDebug {
			fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: Unhandled error: %v. Re-run with --debug for full detail.\n", err)
		}
		os.Exit(1)
	}
	os.Exit(exitCode)
}
