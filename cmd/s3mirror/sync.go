package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studio1767/s3mirror/internal/lockfile"
	"github.com/studio1767/s3mirror/internal/runner"
	"github.com/studio1767/s3mirror/internal/status"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one mirror pass and verify the result",
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

			fmt.Printf("%s %s -> %s\n", cyan("syncing"), cfg.SourceDir, r.Client().Destination())

			rec, err := r.SyncOnce(cmd.Context())
			if errors.Is(err, lockfile.ErrLocked) {
				pid, alive := r.Lock().Owner()
				fmt.Printf("%s another sync is running (pid %d, alive %v)\n", yellow("busy"), pid, alive)
				os.Exit(1)
			}
			if err != nil {
				// a verification failure still produces a record
				if rec != nil {
					printRecord(rec)
				}
				fatal(err)
			}

			printRecord(rec)

			if !rec.Succeeded() {
				os.Exit(1)
			}
		},
	}
}

func printRecord(rec *status.Record) {
	state := green(rec.Status)
	if rec.Status != status.StatusSuccess {
		state = red(rec.Status)
	}

	fmt.Println()
	fmt.Printf("Sync Summary\n")
	fmt.Printf("     timestamp: %s\n", rec.Timestamp)
	fmt.Printf("      duration: %ds\n", rec.DurationSeconds)
	fmt.Printf("         files: %d\n", rec.FilesSynced)
	fmt.Printf("   source size: %s\n", rec.SourceSize)
	fmt.Printf("  dest objects: %d\n", rec.DestinationCount)
	fmt.Printf("        status: %s\n", state)

	v := rec.Verification
	if !v.Enabled {
		fmt.Printf("  verification: %s\n", yellow("disabled"))
		return
	}

	outcome := green(v.Verified)
	if v.Verified != "true" {
		outcome = red(v.Verified)
	}
	fmt.Printf("  verification: %s (algorithm %s, errors %d)\n", outcome, v.Algorithm, v.Errors)
	if v.ChecksumRecord != nil {
		fmt.Printf("        record: %s\n", *v.ChecksumRecord)
	}
}
