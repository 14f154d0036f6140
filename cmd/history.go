package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/vrppd/config"
	"github.com/kilianp07/vrppd/core/scorelog"
)

var (
	historySession  string
	historyFeasible bool
	historySince    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List scores stored in the score log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historySession, "session", "", "only records of this session")
	historyCmd.Flags().BoolVar(&historyFeasible, "feasible", false, "only feasible solutions")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only records newer than this duration")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.ScoreLog.Backend == "" || cfg.ScoreLog.Backend == "none" {
		return fmt.Errorf("no score log configured")
	}
	store, err := scorelog.Open(cfg.ScoreLog)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	q := scorelog.Query{SessionID: historySession, FeasibleOnly: historyFeasible}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	recs, err := store.Query(context.Background(), q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "time\tsession\tsolution\tscore\tunassigned")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			r.Timestamp.Format(time.RFC3339), r.SessionID, r.Solution, r.Score, r.Unassigned)
	}
	return tw.Flush()
}
