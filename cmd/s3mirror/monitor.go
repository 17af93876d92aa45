package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studio1767/s3mirror/internal/monitor"
	"github.com/studio1767/s3mirror/internal/runner"
)

func init() {
	rootCmd.AddCommand(newMonitorCmd())
}

func newMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Watch the source directory and sync on change",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, closer, err := loadConfig()
			if err != nil {
				fatal(err)
			}
			defer closer()

			r, err := runner.New(cmd.Context(), cfg)
			if err != nil {
				fatal(err)
			}

			fmt.Printf("%s %s every %s\n", cyan("watching"), cfg.SourceDir, cfg.MonitorInterval)

			trigger := func(ctx context.Context) error {
				_, err := r.SyncOnce(ctx)
				return err
			}

			m := monitor.New(cfg.SourceDir, cfg.MonitorInterval, r.Lock(), trigger)

			err = m.Run(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				fatal(err)
			}
		},
	}
}
