package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/docsniff/pkg/core"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// LintSummary counts findings by severity.
type LintSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
}

// Add counts one finding of severity sev.
func (s *LintSummary) Add(sev core.Severity) {
	s.TotalIssues++
	switch sev {
	case core.SeverityError:
		s.Errors++
	case core.SeverityWarning:
		s.Warnings++
	case core.SeverityInfo:
		s.Info++
	case core.SeverityHint:
		s.Hints++
	}
}

// String renders "3 issues, 1 errors, 2 warnings in 4 files".
func (s LintSummary) String() string {
	parts := []string{fmt.Sprintf("%d issues", s.TotalIssues)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	return fmt.Sprintf("%s in %d files", strings.Join(parts, ", "), s.FilesAnalyzed)
}

// LintDiagnostic is the JSON form of one finding.
type LintDiagnostic struct {
	RuleID           string `json:"rule_id"`
	Source           string `json:"source"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	Line             int    `json:"line"`
	Column           int    `json:"column"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

// Location renders the finding's "line:column".
func (d LintDiagnostic) Location() string {
	return token.Position{Line: d.Line, Column: d.Column}.String()
}

// LintFileResult is the JSON form of one file's findings.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintOutput is the JSON document written by the lint command.
type LintOutput struct {
	Summary LintSummary          `json:"summary"`
	Files   []LintFileResult     `json:"files"`
	Metrics []lint.MetricSummary `json:"metrics,omitempty"`
}

// NewLintOutput converts results into their JSON form. Files without
// findings are left out; they still count as analyzed.
func NewLintOutput(analyzed int, results []lint.FileResult, metrics []lint.MetricSummary) LintOutput {
	out := LintOutput{
		Summary: LintSummary{FilesAnalyzed: analyzed},
		Files:   []LintFileResult{},
		Metrics: metrics,
	}
	for _, res := range results {
		if len(res.Diagnostics) == 0 {
			continue
		}
		out.Summary.FilesWithIssues++
		fr := LintFileResult{Path: res.Path}
		for _, d := range res.Diagnostics {
			out.Summary.Add(d.Severity)
			fr.Diagnostics = append(fr.Diagnostics, LintDiagnostic{
				RuleID:           d.RuleID,
				Source:           d.Source(),
				Severity:         d.Severity.String(),
				Message:          d.Message,
				Line:             d.Pos.Line,
				Column:           d.Pos.Column,
				DocumentationURL: d.DocumentationURL,
			})
		}
		out.Files = append(out.Files, fr)
	}
	return out
}

// SeverityStyle returns the style for sev.
func (s *Styles) SeverityStyle(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}

// LintResults renders lint findings and their summary. It returns whether
// any finding was rendered.
func (r *Renderer) LintResults(out LintOutput) bool {
	if r.EffectiveMode() == ModeJSON {
		_ = r.JSON(out)
		return out.Summary.TotalIssues > 0
	}

	if out.Summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No issues found in %d files", out.Summary.FilesAnalyzed))
		r.Metrics(out.Metrics)
		return false
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.lintMarkdown(out)
	} else {
		r.lintText(out)
	}
	r.Metrics(out.Metrics)
	r.Printf("Summary: %s\n", out.Summary)
	return true
}

func (r *Renderer) lintText(out LintOutput) {
	styles := r.styles
	for _, f := range out.Files {
		r.Println(styles.FilePath.Render(f.Path))
		for _, d := range f.Diagnostics {
			sev, _ := core.ParseSeverity(d.Severity)
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", d.Location())),
				styles.SeverityStyle(sev).Render(fmt.Sprintf("%-7s", d.Severity)),
				d.Message,
				styles.Muted.Render("("+d.Source+")"),
			)
		}
		r.Println("")
	}
}

func (r *Renderer) lintMarkdown(out LintOutput) {
	r.Header(1, "Lint Results")
	for _, f := range out.Files {
		r.Printf("## `%s`\n\n", f.Path)
		rows := make([][]any, 0, len(f.Diagnostics))
		for _, d := range f.Diagnostics {
			rows = append(rows, []any{d.Location(), d.Severity, d.Message, "`" + d.Source + "`"})
		}
		r.Table([]string{"Line", "Severity", "Message", "Source"}, rows)
	}
}

// Metrics renders metric summaries as a table. Nothing is written for an
// empty list.
func (r *Renderer) Metrics(metrics []lint.MetricSummary) {
	if len(metrics) == 0 {
		return
	}
	rows := make([][]any, 0, len(metrics))
	for _, m := range metrics {
		for _, v := range m.Values {
			rows = append(rows, []any{m.Name, v.Value, v.Count, fmt.Sprintf("%.1f%%", v.Percent)})
		}
	}
	r.Header(2, "Metrics")
	r.Table([]string{"Metric", "Value", "Count", "Share"}, rows)
	r.Println("")
}
