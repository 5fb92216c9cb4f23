package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/report"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every report with the configured parameters",
		Long: `Print the full set of population reports: country, city and capital
rankings, urban/rural breakdowns, population lookups and language statistics.

The continent, region, country, district, city and limit used by the reports
come from the reports section of worldpop.yaml.`,
		Example: `  # Full report as Markdown
  worldpop report -o markdown > report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			start := time.Now()
			reports, err := report.Collect(cmd.Context(), cctx.Engine, cctx.Cfg.Reports)
			if err != nil {
				return err
			}
			cctx.Logger.Info("collected reports",
				slog.Int("reports", len(reports)),
				slog.Duration("duration", time.Since(start)))

			return cctx.Renderer.Render(reports...)
		},
	}
}
