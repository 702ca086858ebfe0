package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "Headless agent-based epidemic simulator",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a scenario and write its statistics, chart and video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scenario, "scenario", "s", "", "YAML scenario file (defaults when empty)")
	f.Int64VarP(&opts.ticks, "ticks", "t", 100*60, "maximum number of ticks to simulate")
	f.BoolVar(&opts.untilOver, "until-over", true, "stop early once no infectious agent remains")
	f.StringVar(&opts.csvPath, "csv", "", "write per-tick statistics to this CSV file")
	f.StringVar(&opts.chartPath, "chart", "", "write a status chart to this PNG file")
	f.StringVar(&opts.videoPath, "video", "", "write an MJPEG AVI of the run to this file")
	f.IntVar(&opts.frameEvery, "frame-every", 2, "record a video frame every N ticks")
	f.IntVar(&opts.fps, "fps", 30, "video playback frame rate")
	f.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "persist the run to this Postgres database")
	return cmd
}

func configCmd() *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective scenario as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfig(cmd.OutOrStdout(), scenario)
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "YAML scenario file to normalize")
	return cmd
}

func runsCmd() *cobra.Command {
	var (
		databaseURL string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recently persisted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRuns(cmd.Context(), cmd.OutOrStdout(), databaseURL, limit)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		databaseURL string
		csvPath     string
		chartPath   string
	)

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Write the statistics of a persisted run as CSV and chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportRun(cmd.Context(), cmd.OutOrStdout(), databaseURL, args[0], csvPath, chartPath)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV output file")
	cmd.Flags().StringVar(&chartPath, "chart", "", "PNG chart output file")
	return cmd
}
