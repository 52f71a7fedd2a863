// Package cmd defines the focuscrawl CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focuscrawl",
		Short: "A focused web crawler for the UCI computing domains",
		Long: `focuscrawl crawls the ics, cs, informatics, and stat.uci.edu domains,
tracking crawl statistics as it goes: unique pages, subdomains, the
longest page, and the most common words. It renders live console
reports during the crawl and persists a final report on shutdown.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: built-in defaults plus FOCUSCRAWL_* env)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newReportCmd())

	return cmd
}

// Execute is the CLI entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
