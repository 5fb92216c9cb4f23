package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	intconfig "github.com/leapstack-labs/worldpop/internal/config"
	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/dialect"
	"github.com/leapstack-labs/worldpop/pkg/query"
)

// SQLOptions holds options for the sql command.
type SQLOptions struct {
	Dialect string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	opts := &SQLOptions{}

	cmd := &cobra.Command{
		Use:   "sql [statement]",
		Short: "Print the SQL issued against the world database",
		Long: `Print the statements the catalog issues, rendered for one SQL dialect.

The dialect defaults to the one of the configured target. Pass a statement
name (for example group_totals_region) to print only that statement.`,
		Example: `  # Statements for the configured target
  worldpop sql

  # Compare identifier quoting across dialects
  worldpop sql list_countries --dialect postgres
  worldpop sql list_countries --dialect mysql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect ("+strings.Join(dialect.List(), "|")+")")
	_ = cmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSQL(cmd *cobra.Command, args []string, opts *SQLOptions) error {
	cfg := getConfig(cmd)

	var (
		d   *dialect.Dialect
		err error
	)
	if opts.Dialect != "" {
		d, err = dialect.Resolve(opts.Dialect)
	} else {
		d, err = intconfig.ResolveDialect(cfg.Target)
		if err == nil && d == nil {
			err = fmt.Errorf("the %s target has no SQL dialect; pass --dialect", cfg.Target.Type)
		}
	}
	if err != nil {
		return err
	}

	b, err := query.New(d)
	if err != nil {
		return err
	}
	queries, err := b.All()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		var found []query.Query
		for _, q := range queries {
			if q.Name == args[0] {
				found = append(found, q)
			}
		}
		if len(found) == 0 {
			names := make([]string, len(queries))
			for i, q := range queries {
				names[i] = q.Name
			}
			return fmt.Errorf("unknown statement %q (available: %s)", args[0], strings.Join(names, ", "))
		}
		queries = found
	}

	r, err := newRenderer(cmd.OutOrStdout(), cfg.OutputFormat)
	if err != nil {
		return err
	}
	if r.Format() == report.FormatJSON {
		return writeQueriesJSON(cmd.OutOrStdout(), queries)
	}
	writeQueriesSQL(cmd.OutOrStdout(), d.Name, queries)
	return nil
}

func writeQueriesSQL(w io.Writer, dialectName string, queries []query.Query) {
	for i, q := range queries {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "-- %s (%s)\n", q.Name, dialectName)
		if len(q.Args) > 0 {
			_, _ = fmt.Fprintf(w, "-- args: %v\n", q.Args)
		}
		_, _ = fmt.Fprintf(w, "%s;\n", strings.TrimSpace(q.SQL))
	}
}

type queryJSON struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`
	Args []any  `json:"args,omitempty"`
}

func writeQueriesJSON(w io.Writer, queries []query.Query) error {
	out := make([]queryJSON, len(queries))
	for i, q := range queries {
		out[i] = queryJSON{Name: q.Name, SQL: strings.TrimSpace(q.SQL), Args: q.Args}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
