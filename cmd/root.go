package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/vrppd/app"
	"github.com/kilianp07/vrppd/config"
	"github.com/kilianp07/vrppd/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vrppd",
	Short: "Pickup and delivery route model",
	Long: "Builds a pickup and delivery problem, seeds vehicle routes and scores them.\n" +
		"With metrics.prometheus_addr or api.addr set, the root command keeps serving until interrupted.",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := startService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService(svc)
	if err := printSummary(cmd.OutOrStdout(), svc); err != nil {
		return err
	}
	if svc.Serving() {
		<-ctx.Done()
	}
	return nil
}

func startService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	svc, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Run(ctx); err != nil {
		closeService(svc)
		return nil, err
	}
	return svc, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
