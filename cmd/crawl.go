package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/focuscrawl/focuscrawl/internal/app"
	"github.com/focuscrawl/focuscrawl/internal/config"
	"github.com/focuscrawl/focuscrawl/internal/logging"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Start a crawl",
		Long: `Runs a crawl from the configured seed URLs until the frontier
drains or the process is interrupted. Progress renders to stdout; the
final report and statistics snapshot are written on every exit path.`,
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, logger).Run(ctx); err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}
	return nil
}
