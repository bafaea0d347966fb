package main

import (
	"bytes"
	"fmt"
	"strings"
)

// generatedHeader marks files produced by this generator.
const generatedHeader = "<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->"

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter creates an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	w.Line("---")
	w.Line(fmt.Sprintf("title: %q", title))
	w.Line(fmt.Sprintf("description: %q", description))
	w.Line("---")
	w.Newline()
}

// GeneratedMarker writes the generated-file comment.
func (w *MarkdownWriter) GeneratedMarker() {
	w.Line(generatedHeader)
	w.Newline()
}

// Header writes a level-n heading.
func (w *MarkdownWriter) Header(level int, text string) {
	w.Line(strings.Repeat("#", level) + " " + text)
	w.Newline()
}

// Paragraph writes text followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.Line(text)
	w.Newline()
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.Line("```" + lang)
	w.Line(strings.TrimRight(code, "\n"))
	w.Line("```")
	w.Newline()
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.Line("- " + item)
	}
	w.Newline()
}

// Table writes a pipe table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.Line("| " + strings.Join(escapeCells(headers), " | ") + " |")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.Line("| " + strings.Join(sep, " | ") + " |")
	for _, row := range rows {
		w.Line("| " + strings.Join(escapeCells(row), " | ") + " |")
	}
	w.Newline()
}

// Line writes text and a newline.
func (w *MarkdownWriter) Line(text string) {
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// Newline writes an empty line.
func (w *MarkdownWriter) Newline() {
	w.buf.WriteByte('\n')
}

// Bytes returns the document.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// Bold wraps s in double asterisks.
func Bold(s string) string {
	return "**" + s + "**"
}

// cleanDescription collapses whitespace so a description fits a table cell.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
