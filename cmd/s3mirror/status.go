package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studio1767/s3mirror/internal/status"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last sync run",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, closer, err := loadConfig()
			if err != nil {
				fatal(err)
			}
			defer closer()

			rec, err := status.Load(cfg.StatusFile)
			if err != nil {
				fatal(err)
			}

			printRecord(rec)

			if !rec.Succeeded() {
				os.Exit(1)
			}
		},
	}
}
