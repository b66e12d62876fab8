package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/questionbank"
)

var statsSince time.Duration

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report on tutor usage",
}

var statsRoutesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Count turns per route over a recent window",
	Args:  cobra.NoArgs,
	RunE:  runStatsRoutes,
}

var statsLearnerCmd = &cobra.Command{
	Use:   "learner <user-id>",
	Short: "Print a learner's progress report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsLearner,
}

func init() {
	statsRoutesCmd.Flags().DurationVar(&statsSince, "since", 24*time.Hour, "window to count over")
	statsCmd.AddCommand(statsRoutesCmd, statsLearnerCmd)
}

func runStatsRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	counts, err := analytics.NewRepository(pool).RouteCounts(ctx, time.Now().Add(-statsSince))
	if err != nil {
		return err
	}
	return printRouteCounts(cmd.OutOrStdout(), counts)
}

func printRouteCounts(w io.Writer, counts []analytics.RouteCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "no interactions in window")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tTURNS")
	var total int64
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Route, c.Count)
		total += c.Count
	}
	fmt.Fprintf(tw, "total\t%d\n", total)
	return tw.Flush()
}

func runStatsLearner(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := analytics.NewService(questionbank.NewPostgresAttempts(pool), analytics.NewRepository(pool))
	stats, err := svc.Stats(ctx, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
