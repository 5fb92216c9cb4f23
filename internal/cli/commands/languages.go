package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/report"
)

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "Estimate speakers of the major world languages",
		Long: `Estimate the number of people speaking Chinese, English, Hindi, Spanish and
Arabic from each country's population and usage percentage, with their share
of the world population.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := cctx.Engine.LanguageStatistics(cmd.Context())
			if err != nil {
				return err
			}
			return cctx.Renderer.Render(report.Languages("Speakers of the major languages", stats))
		},
	}
}
