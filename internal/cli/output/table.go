package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table writes rows under header. Markdown mode renders a Markdown table;
// text mode a box-drawn one.
func (r *Renderer) Table(header []string, rows [][]any) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		r.Println("")
		return
	}

	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
}
