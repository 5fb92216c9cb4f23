package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// NewPopulationCommand creates the population command.
func NewPopulationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "population <world|continent|region|country|district|city> [name]",
		Short: "Show the population of one place",
		Long: `Show the population of the world or of one named continent, region,
country, district or city. A district is the sum of its cities; when several
cities share a name the one with the lowest id is used.`,
		Example: `  worldpop population world
  worldpop population region Caribbean
  worldpop population city Edinburgh -o json`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: scopeNames(core.AllScopes),
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

			pop, found, err := cctx.Engine.Population(cmd.Context(), scope, name)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no %s named %q", scope, name)
			}

			title := "Population of the world"
			if scope != core.ScopeWorld {
				title = fmt.Sprintf("Population of %s %s", scope, name)
			}
			return cctx.Renderer.Render(report.Population(title, scope, name, pop, found))
		},
	}
	return cmd
}
