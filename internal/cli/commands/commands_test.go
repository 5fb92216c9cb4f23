package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/worldpop/internal/cli/testutil"
	"github.com/leapstack-labs/worldpop/internal/engine"
	"github.com/leapstack-labs/worldpop/internal/report"
	wptestutil "github.com/leapstack-labs/worldpop/internal/testutil"
	"github.com/leapstack-labs/worldpop/pkg/core"

	_ "github.com/leapstack-labs/worldpop/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/worldpop/pkg/dialects/sqlite"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewCountriesCommand(), use: "countries", flags: []string{"scope", "value", "limit"}},
		{cmd: NewCitiesCommand(), use: "cities", flags: []string{"scope", "value", "limit"}},
		{cmd: NewCapitalsCommand(), use: "capitals", flags: []string{"scope", "value", "limit"}},
		{cmd: NewBreakdownCommand(), use: "breakdown"},
		{cmd: NewPopulationCommand(), use: "population"},
		{cmd: NewLanguagesCommand(), use: "languages"},
		{cmd: NewReportCommand(), use: "report"},
		{cmd: NewMenuCommand(), use: "menu"},
		{cmd: NewSQLCommand(), use: "sql", flags: []string{"dialect"}},
		{cmd: NewSeedCommand(), use: "seed"},
		{cmd: NewServeCommand(), use: "serve", flags: []string{"addr", "read-timeout", "watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Name())
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestRankCommand_WithoutRootUsesSampleData(t *testing.T) {
	cmd := NewCountriesCommand()
	cmd.SetContext(context.Background())

	res := testutil.Execute(cmd, "--limit", "1")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "## Top 1 countries in the world")
	assert.Contains(t, res.Out, "China")
}

func TestRankTitle(t *testing.T) {
	tests := []struct {
		req  core.RankRequest
		want string
	}{
		{req: core.RankRequest{Scope: core.ScopeWorld}, want: "All cities in the world"},
		{req: core.RankRequest{Scope: core.ScopeWorld, Limit: core.Limit(5)}, want: "Top 5 cities in the world"},
		{req: core.RankRequest{Scope: core.ScopeDistrict, Value: "Delhi"}, want: "All cities in Delhi"},
		{req: core.RankRequest{Scope: core.ScopeRegion, Value: "Caribbean", Limit: core.Limit(3)}, want: "Top 3 cities in Caribbean"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rankTitle("cities", tt.req))
	}
}

func TestRankOptions_LimitOnlyWhenSet(t *testing.T) {
	cmd := NewCitiesCommand()
	opts := &RankOptions{Scope: "World"}

	req, err := opts.request(cmd)
	require.NoError(t, err)
	assert.Equal(t, core.ScopeWorld, req.Scope)
	assert.Nil(t, req.Limit)

	require.NoError(t, cmd.Flags().Set("limit", "0"))
	opts.Limit = 0
	req, err = opts.request(cmd)
	require.NoError(t, err)
	require.NotNil(t, req.Limit, "an explicit zero is passed on and rejected by the engine")
	assert.Equal(t, 0, *req.Limit)

	_, err = (&RankOptions{Scope: "planet"}).request(cmd)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		format  string
		want    report.Format
		wantErr bool
	}{
		{format: "", want: report.FormatMarkdown},
		{format: "auto", want: report.FormatMarkdown},
		{format: "json", want: report.FormatJSON},
		{format: "text", want: report.FormatTable},
		{format: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := newRenderer(&bytes.Buffer{}, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Format())
		})
	}
}

func TestSQLCommand_Dialects(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{dialect: "sqlite", want: `"country"`},
		{dialect: "mysql", want: "`country`"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			cmd := NewSQLCommand()
			cmd.SetContext(context.Background())
			res := testutil.Execute(cmd, "list_countries", "--dialect", tt.dialect)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Out, tt.want)
			assert.True(t, strings.HasSuffix(strings.TrimSpace(res.Out), ";"))
		})
	}
}

func newTestMenu(t *testing.T, cat core.Catalog) (*menu, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &menu{
		src: engine.New(cat),
		defaults: core.ReportDefaults{
			Continent: "Europe",
			Region:    "Western Europe",
			Country:   "France",
			District:  "Tokyo-to",
			City:      "Paris",
			Limit:     2,
		},
		renderer: report.NewRenderer(out, report.FormatMarkdown),
		out:      out,
		errOut:   errOut,
	}, out, errOut
}

func TestMenu_RunEntry(t *testing.T) {
	m, out, errOut := newTestMenu(t, wptestutil.World())

	assert.False(t, m.handle(context.Background(), "4"))
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "## Top 2 countries in the world")
	assert.Contains(t, out.String(), "China")
}

func TestMenu_Set(t *testing.T) {
	m, out, errOut := newTestMenu(t, wptestutil.World())
	ctx := context.Background()

	m.handle(ctx, ".set continent Asia")
	m.handle(ctx, ".set region Eastern Asia")
	m.handle(ctx, ".set limit 1")
	assert.Empty(t, errOut.String())
	assert.Equal(t, "Eastern Asia", m.defaults.Region)

	m.handle(ctx, "5")
	assert.Contains(t, out.String(), "## Top 1 countries in Asia")

	m.handle(ctx, ".set limit none")
	assert.Contains(t, errOut.String(), "not a positive number")
	assert.Equal(t, 1, m.defaults.Limit)

	m.handle(ctx, ".set planet Mars")
	assert.Contains(t, errOut.String(), `unknown parameter "planet"`)
}

func TestMenu_Commands(t *testing.T) {
	m, out, errOut := newTestMenu(t, wptestutil.World())
	ctx := context.Background()

	tests := []struct {
		line    string
		quit    bool
		wantOut string
		wantErr string
	}{
		{line: "", quit: false},
		{line: ".list", wantOut: "  1. All countries in the world"},
		{line: ".show", wantOut: "region:    Western Europe"},
		{line: ".help", wantOut: ".set <name> <value>"},
		{line: "0", wantErr: "Choose a report between 1 and 32"},
		{line: "paris", wantErr: "Choose a report"},
		{line: ".bogus", wantErr: "Unknown command: .bogus"},
		{line: ".quit", quit: true},
		{line: ".EXIT", quit: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			errOut.Reset()
			assert.Equal(t, tt.quit, m.handle(ctx, tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestMenu_All(t *testing.T) {
	m, out, _ := newTestMenu(t, wptestutil.World())
	m.handle(context.Background(), "all")
	assert.Equal(t, 32, strings.Count(out.String(), "## "))
}

func TestMenu_DataAccessFailureKeepsRunning(t *testing.T) {
	m, _, errOut := newTestMenu(t, wptestutil.FailingCatalog{})

	assert.False(t, m.handle(context.Background(), "1"))
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "data access failure")
}
