package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// NewBreakdownCommand creates the breakdown command.
func NewBreakdownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakdown <continent|region|country> [name]",
		Short: "Split population into people living in and out of cities",
		Long: `Split population into people living in cities and people living outside them.

Without a name, every continent, region or country is listed, most populous
first. With a name, only that one is shown; countries match by name or code.`,
		Example: `  # Every continent
  worldpop breakdown continent

  # One country by code
  worldpop breakdown country FRA`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: scopeNames(core.BreakdownScopes),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := core.ParseScope(args[0])
			if err != nil {
				return err
			}
			var name string
			if len(args) == 2 {
				name = args[1]
			}

			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := cctx.Engine.Breakdown(cmd.Context(), scope, name)
			if err != nil {
				return err
			}
			if name != "" && len(rows) == 0 {
				return fmt.Errorf("no %s named %q", scope, name)
			}

			title := fmt.Sprintf("Population in and out of cities by %s", scope)
			if name != "" {
				title = fmt.Sprintf("Population in and out of cities in %s", rows[0].Name)
			}
			return cctx.Renderer.Render(report.Breakdowns(title, rows))
		},
	}
	return cmd
}
