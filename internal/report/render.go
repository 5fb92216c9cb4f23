package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Renderer writes reports to w in one format.
type Renderer struct {
	w       io.Writer
	format  Format
	printer *message.Printer
}

// NewRenderer creates a renderer. Console tables and Markdown group digits
// for English; CSV, JSON and YAML keep raw numbers.
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{
		w:       w,
		format:  format,
		printer: message.NewPrinter(language.English),
	}
}

// Format returns the output format.
func (r *Renderer) Format() Format {
	return r.format
}

// titled is the JSON and YAML shape of one report among several.
type titled struct {
	Title string `json:"title" yaml:"title"`
	Data  any    `json:"data" yaml:"data"`
}

// Render writes the reports in order.
func (r *Renderer) Render(reports ...Report) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.structured(reports))
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(r.structured(reports)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	for i, rep := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(r.w)
		}
		switch r.format {
		case FormatCSV:
			r.renderCSV(rep, len(reports) > 1)
		case FormatMarkdown:
			r.renderMarkdown(rep)
		default:
			r.renderTable(rep)
		}
	}
	return nil
}

// structured returns the value encoded by JSON and YAML: the data itself
// for a single report, a list of titled values otherwise.
func (r *Renderer) structured(reports []Report) any {
	if len(reports) == 1 {
		return reports[0].Data
	}
	out := make([]titled, len(reports))
	for i, rep := range reports {
		out[i] = titled{Title: rep.Title, Data: rep.Data}
	}
	return out
}

func (r *Renderer) newWriter(rep Report, human bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)

	header := make(table.Row, len(rep.Columns))
	for i, col := range rep.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	var configs []table.ColumnConfig
	for _, row := range rep.Rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = r.cell(v, human)
		}
		t.AppendRow(cells)
	}
	if len(rep.Rows) > 0 {
		for i, v := range rep.Rows[0] {
			switch v.(type) {
			case count, percent, int64:
				configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
			}
		}
	}
	t.SetColumnConfigs(configs)
	return t
}

// cell formats numeric kinds. Human output groups digits.
func (r *Renderer) cell(v any, human bool) any {
	switch n := v.(type) {
	case count:
		if human {
			return r.printer.Sprintf("%d", int64(n))
		}
		return int64(n)
	case percent:
		return fmt.Sprintf("%.2f", float64(n))
	default:
		return v
	}
}

func (r *Renderer) renderTable(rep Report) {
	t := r.newWriter(rep, true)
	t.SetTitle(rep.Title)
	t.SetStyle(table.StyleLight)
	t.Render()
	_, _ = fmt.Fprintf(r.w, "(%d rows)\n", len(rep.Rows))
}

func (r *Renderer) renderMarkdown(rep Report) {
	_, _ = fmt.Fprintf(r.w, "## %s\n\n", rep.Title)
	if len(rep.Rows) == 0 {
		_, _ = fmt.Fprintln(r.w, "(0 rows)")
		return
	}
	r.newWriter(rep, true).RenderMarkdown()
	_, _ = fmt.Fprintln(r.w)
}

func (r *Renderer) renderCSV(rep Report, withTitle bool) {
	if withTitle {
		_, _ = fmt.Fprintf(r.w, "# %s\n", rep.Title)
	}
	r.newWriter(rep, false).RenderCSV()
	_, _ = fmt.Fprintln(r.w)
}
