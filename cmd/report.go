package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focuscrawl/focuscrawl/internal/report"
)

func newReportCmd() *cobra.Command {
	var statsPath string
	var textPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Regenerate reports from a saved statistics snapshot",
		Long: `Reads the statistics snapshot persisted by a previous crawl and
prints the final report. With --text it also rewrites the plain-text
report artifact, matching what the crawl itself would have written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := report.ReadStats(statsPath)
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}
			if textPath != "" {
				if err := report.NewTextSink(textPath).Write(snap); err != nil {
					return fmt.Errorf("write text report: %w", err)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RenderFinal(snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&statsPath, "stats", "data/stats.json", "path of the statistics snapshot")
	cmd.Flags().StringVar(&textPath, "text", "", "also rewrite the plain-text report at this path")

	return cmd
}
