package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/studio1767/s3mirror/internal/config"
	"github.com/studio1767/s3mirror/internal/logging"
)

var (
	red    = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	cyan   = color.New(color.FgHiCyan).SprintFunc()
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "s3mirror",
	Short: "Mirror a local directory to S3 with checksum verification",
	Long: "s3mirror keeps an S3 prefix identical to a local source directory,\n" +
		"optionally verifying the transfer with server-side checksums or a\n" +
		"pre-upload checksum record.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "s3mirror.env", "configuration file")
}

// loadConfig reads the config file and wires up logging before any
// subcommand runs. Returned closer owns the log file.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	closer, err := logging.Setup(cfg.LogDir, slog.LevelInfo)
	if err != nil {
		return nil, nil, err
	}

	return cfg, func() { closer.Close() }, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("ERROR"), err)
	os.Exit(1)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}
