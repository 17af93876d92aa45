package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studio1767/s3mirror/internal/checksum"
	"github.com/studio1767/s3mirror/internal/runner"
	"github.com/studio1767/s3mirror/internal/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	var legacy bool

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the destination against checksums without syncing",
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

			fmt.Printf("%s %s\n", cyan("verifying"), r.Client().Destination())

			var summary *verify.Summary
			if legacy {
				record, err := checksum.LatestRecord(cfg.RecordDir)
				if err != nil {
					fatal(err)
				}
				summary, err = verify.Legacy(cmd.Context(), r.Client(), record, "")
				if err != nil {
					fatal(err)
				}
			} else {
				if r.Policy().Algorithm == checksum.None {
					fatal(errors.New("checksums are disabled; set ENABLE_CHECKSUM=true or use --legacy"))
				}
				summary, err = verify.Metadata(cmd.Context(), r.Client(), r.Policy().Algorithm, cfg.MaxConcurrency)
				if err != nil {
					fatal(err)
				}
			}

			outcome := string(summary.Outcome())
			state := green(outcome)
			if summary.Outcome() != verify.Verified {
				state = red(outcome)
			}

			fmt.Println()
			fmt.Printf("Verification Summary\n")
			fmt.Printf("   checked: %d\n", summary.Checked)
			fmt.Printf("  verified: %d\n", summary.Verified)
			fmt.Printf("   missing: %d\n", summary.Missing)
			fmt.Printf("    errors: %d\n", summary.Errors)
			fmt.Printf("   outcome: %s\n", state)

			if summary.Outcome() != verify.Verified {
				os.Exit(1)
			}
		},
	}

	verifyCmd.Flags().BoolVarP(&legacy, "legacy", "l", false, "download objects and compare against the latest checksum record")

	return verifyCmd
}
