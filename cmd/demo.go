package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kilianp07/vrppd/app"
	"github.com/kilianp07/vrppd/config"
	"github.com/kilianp07/vrppd/core/model"
	"github.com/kilianp07/vrppd/pkg/export"
)

var (
	exportFormat string
	exportPath   string
	demoOrder    string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build the demo problem, seed routes and print them",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&exportFormat, "export", "", "write routes as json, csv, yaml or html")
	demoCmd.Flags().StringVarP(&exportPath, "output", "o", "", "export file, stdout when empty")
	demoCmd.Flags().StringVar(&demoOrder, "order", "", "difficulty order: angle or distance")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if demoOrder != "" {
		cfg.Problem.Order = demoOrder
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	var format export.Format
	if exportFormat != "" {
		if format, err = export.ParseFormat(exportFormat); err != nil {
			return err
		}
	}
	svc, err := startService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeService(svc)

	out := cmd.OutOrStdout()
	if format == "" {
		return printSummary(out, svc)
	}
	if exportPath == "" {
		return export.WriteSolution(out, format, svc.Solution())
	}
	f, err := os.Create(exportPath)
	if err != nil {
		return err
	}
	if err := export.WriteSolution(f, format, svc.Solution()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s routes written to %s\n", format, exportPath)
	return err
}

// printSummary writes the score and one line per vehicle route.
func printSummary(w io.Writer, svc *app.Service) error {
	sol := svc.Solution()
	score, err := svc.Score()
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: score %s, distance %s\n", sol.Name, score, sol.DistanceString())
	for v := range sol.NumVehicles() {
		veh := sol.Vehicle(v)
		ids := lo.Map(sol.Rides(v), func(i, _ int) string {
			return fmt.Sprint(sol.Ride(i).ID)
		})
		fmt.Fprintf(&b, "  vehicle %d (load %d/%d, %s): %s\n",
			veh.ID, sol.Load(v), veh.Capacity,
			model.FormatDistance(sol.TotalDistance(v), sol.DistanceUnit),
			strings.Join(ids, " "))
	}
	if n := len(sol.Unassigned()); n > 0 {
		fmt.Fprintf(&b, "  %d rides unassigned\n", n)
	}
	_, err = io.WriteString(w, b.String())
	return err
}
