package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

const menuPrompt = "worldpop> "

// menuHistoryFile is kept in the project root.
const menuHistoryFile = ".worldpop_history"

// NewMenuCommand creates the menu command.
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Pick reports from an interactive menu",
		Long: `Start an interactive menu listing every report.

Type a report number to run it, or "all" to run every report. The report
parameters start from the reports section of worldpop.yaml and can be changed
with .set, for example ".set continent Asia" or ".set limit 5".`,
		Args: cobra.NoArgs,
		RunE: runMenu,
	}
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	m := &menu{
		src:      cctx.Engine,
		defaults: cctx.Cfg.Reports,
		renderer: cctx.Renderer,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}

	var historyFile string
	if cctx.Cfg.ProjectRoot != "" {
		historyFile = filepath.Join(cctx.Cfg.ProjectRoot, menuHistoryFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          menuPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    menuCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize menu: %w", err)
	}
	defer func() { _ = rl.Close() }()

	m.printMenu()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if m.handle(cmd.Context(), line) {
			return nil
		}
	}
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true)
	menuNumberStyle = lipgloss.NewStyle().Faint(true)
)

// menu runs report entries chosen by number.
type menu struct {
	src      report.Source
	defaults core.ReportDefaults
	renderer *report.Renderer
	out      io.Writer
	errOut   io.Writer
}

// handle executes one input line and reports whether the menu should exit.
func (m *menu) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ".") {
		return m.handleDotCommand(line)
	}

	if strings.EqualFold(line, "all") {
		reports, err := report.Collect(ctx, m.src, m.defaults)
		if err != nil {
			m.printError(err)
			return false
		}
		m.render(reports...)
		return false
	}

	n, err := strconv.Atoi(line)
	entries := report.Entries(m.defaults)
	if err != nil || n < 1 || n > len(entries) {
		_, _ = fmt.Fprintf(m.errOut, "Choose a report between 1 and %d (type .help for commands)\n", len(entries))
		return false
	}

	rep, err := entries[n-1].Run(ctx, m.src)
	if err != nil {
		m.printError(err)
		return false
	}
	m.render(rep)
	return false
}

func (m *menu) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printMenuHelp(m.out)

	case ".list", ".menu":
		m.printMenu()

	case ".show":
		d := m.defaults
		_, _ = fmt.Fprintf(m.out, "continent: %s\nregion:    %s\ncountry:   %s\ndistrict:  %s\ncity:      %s\nlimit:     %d\n",
			d.Continent, d.Region, d.Country, d.District, d.City, d.Limit)

	case ".set":
		if len(parts) < 3 {
			_, _ = fmt.Fprintln(m.errOut, "Usage: .set <continent|region|country|district|city|limit> <value>")
			return false
		}
		if err := m.set(strings.ToLower(parts[1]), strings.Join(parts[2:], " ")); err != nil {
			m.printError(err)
		}

	default:
		_, _ = fmt.Fprintf(m.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// set changes one report parameter.
func (m *menu) set(key, value string) error {
	switch key {
	case "continent":
		m.defaults.Continent = value
	case "region":
		m.defaults.Region = value
	case "country":
		m.defaults.Country = value
	case "district":
		m.defaults.District = value
	case "city":
		m.defaults.City = value
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return &core.ArgumentError{Field: "limit", Reason: fmt.Sprintf("%q is not a positive number", value)}
		}
		m.defaults.Limit = n
	default:
		return fmt.Errorf("unknown parameter %q", key)
	}
	return nil
}

func (m *menu) printMenu() {
	_, _ = fmt.Fprintln(m.out, menuTitleStyle.Render("World population reports"))
	for i, e := range report.Entries(m.defaults) {
		_, _ = fmt.Fprintf(m.out, "%s %s\n", menuNumberStyle.Render(fmt.Sprintf("%3d.", i+1)), e.Title)
	}
	_, _ = fmt.Fprintln(m.out)
}

func (m *menu) render(reports ...report.Report) {
	if err := m.renderer.Render(reports...); err != nil {
		m.printError(err)
	}
	_, _ = fmt.Fprintln(m.out)
}

func (m *menu) printError(err error) {
	_, _ = fmt.Fprintf(m.errOut, "Error: %v\n", err)
}

func printMenuHelp(w io.Writer) {
	help := `
Commands:
  <number>              Run one report
  all                   Run every report
  .list                 Show the report list
  .show                 Show the report parameters
  .set <name> <value>   Change a parameter (continent, region, country,
                        district, city, limit)
  .help                 Show this help message
  .quit / .exit         Exit the menu
`
	_, _ = fmt.Fprintln(w, help)
}

func menuCompleter() *readline.PrefixCompleter {
	params := []readline.PrefixCompleterInterface{
		readline.PcItem("continent"),
		readline.PcItem("region"),
		readline.PcItem("country"),
		readline.PcItem("district"),
		readline.PcItem("city"),
		readline.PcItem("limit"),
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("all"),
		readline.PcItem(".help"),
		readline.PcItem(".list"),
		readline.PcItem(".show"),
		readline.PcItem(".set", params...),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
