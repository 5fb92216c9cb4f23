package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/internal/worlddb"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the world schema and load the sample data",
		Long: `Apply the world schema migrations to the configured target and load the
sample country, city and language data when the country table is empty.

Seeding is idempotent: an already populated database is left unchanged.`,
		Example: `  # Seed the default SQLite database
  worldpop seed

  # Seed a PostgreSQL environment
  worldpop seed --target prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd)
			logger := getLogger(cmd)

			if strings.EqualFold(cfg.Target.Type, intconfig.MemoryTarget) {
				return fmt.Errorf("the memory target serves the sample data directly and cannot be seeded")
			}

			adp, err := connect(cmd.Context(), cfg.Target, logger)
			if err != nil {
				return err
			}
			defer func() { _ = adp.Close() }()

			loaded, err := worlddb.Seed(cmd.Context(), adp, logger)
			if err != nil {
				return err
			}

			where := cfg.Target.Type
			if cfg.Target.Database != "" {
				where += " " + cfg.Target.Database
			}
			if loaded {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded sample world data into %s\n", where)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "World data already present in %s\n", where)
			}
			logger.Debug("seed finished", slog.Bool("loaded", loaded))
			return nil
		},
	}
	return cmd
}
