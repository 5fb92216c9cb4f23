package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/engine"
	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// RankOptions holds options for the ranking commands.
type RankOptions struct {
	Scope string
	Value string
	Limit int
}

// request converts the options; a limit flag that was not set means all rows.
func (o *RankOptions) request(cmd *cobra.Command) (core.RankRequest, error) {
	scope, err := core.ParseScope(o.Scope)
	if err != nil {
		return core.RankRequest{}, err
	}
	req := core.RankRequest{Scope: scope, Value: o.Value}
	if cmd.Flags().Changed("limit") {
		req.Limit = core.Limit(o.Limit)
	}
	return req, nil
}

// rankCommand describes one ranking command.
type rankCommand struct {
	use     string
	entity  string
	scopes  []core.Scope
	example string
	run     func(ctx context.Context, eng *engine.Engine, title string, req core.RankRequest) (report.Report, error)
}

// NewCountriesCommand creates the countries command.
func NewCountriesCommand() *cobra.Command {
	return newRankCommand(rankCommand{
		use:    "countries",
		entity: "countries",
		scopes: engine.CountryRankScopes,
		example: `  # All countries, most populous first
  worldpop countries

  # Top 5 countries in Asia as JSON
  worldpop countries --scope continent --value Asia --limit 5 -o json`,
		run: func(ctx context.Context, eng *engine.Engine, title string, req core.RankRequest) (report.Report, error) {
			rows, err := eng.TopCountries(ctx, req)
			return report.Countries(title, rows), err
		},
	})
}

// NewCitiesCommand creates the cities command.
func NewCitiesCommand() *cobra.Command {
	return newRankCommand(rankCommand{
		use:    "cities",
		entity: "cities",
		scopes: engine.CityRankScopes,
		example: `  # Top 10 cities in the world
  worldpop cities --limit 10

  # All cities of a district
  worldpop cities --scope district --value "Buenos Aires"`,
		run: func(ctx context.Context, eng *engine.Engine, title string, req core.RankRequest) (report.Report, error) {
			rows, err := eng.TopCities(ctx, req)
			return report.Cities(title, rows), err
		},
	})
}

// NewCapitalsCommand creates the capitals command.
func NewCapitalsCommand() *cobra.Command {
	return newRankCommand(rankCommand{
		use:    "capitals",
		entity: "capital cities",
		scopes: engine.CapitalRankScopes,
		example: `  # Top 3 capital cities in the Caribbean
  worldpop capitals --scope region --value Caribbean --limit 3`,
		run: func(ctx context.Context, eng *engine.Engine, title string, req core.RankRequest) (report.Report, error) {
			rows, err := eng.TopCapitals(ctx, req)
			return report.Capitals(title, rows), err
		},
	})
}

func newRankCommand(rc rankCommand) *cobra.Command {
	opts := &RankOptions{}
	scopes := scopeNames(rc.scopes)

	cmd := &cobra.Command{
		Use:   rc.use,
		Short: fmt.Sprintf("Rank %s by population", rc.entity),
		Long: fmt.Sprintf(`Rank %s by population, largest first.

Ties are broken by name. Scope values are matched ignoring case.
Supported scopes: %s.`, rc.entity, strings.Join(scopes, ", ")),
		Example: rc.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}

			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			rep, err := rc.run(cmd.Context(), cctx.Engine, rankTitle(rc.entity, req), req)
			if err != nil {
				return err
			}
			return cctx.Renderer.Render(rep)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", core.ScopeWorld.String(), "Scope to rank within ("+strings.Join(scopes, "|")+")")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Name of the continent, region, country or district")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of rows (default: all)")

	_ = cmd.RegisterFlagCompletionFunc("scope", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return scopes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// rankTitle names a ranking the way the full report does.
func rankTitle(entity string, req core.RankRequest) string {
	where := "the world"
	if req.Scope != core.ScopeWorld {
		where = req.Value
	}
	if req.Limit == nil {
		return fmt.Sprintf("All %s in %s", entity, where)
	}
	return fmt.Sprintf("Top %d %s in %s", *req.Limit, entity, where)
}

func scopeNames(scopes []core.Scope) []string {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return names
}
