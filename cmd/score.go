package cmd

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kilianp07/vrppd/config"
	"github.com/kilianp07/vrppd/core/constraint"
)

var scoreVerbose bool

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Explain the score of the seeded demo solution",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "list every penalised ride")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := startService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeService(svc)

	sol := svc.Solution()
	matches := constraint.Explain(sol)
	score, err := svc.Score()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "score\t%s\n", score)
	summary := constraint.Summarize(matches)
	names := lo.Keys(summary)
	slices.Sort(names)
	for _, name := range names {
		c, _ := constraint.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\n", name, c.Level, summary[name])
	}
	if scoreVerbose {
		fmt.Fprintln(tw, "constraint\tvehicle\tride\tpenalty")
		for _, m := range matches {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", m.Constraint, m.VehicleID, m.RideID, m.Penalty)
		}
	}
	return tw.Flush()
}
