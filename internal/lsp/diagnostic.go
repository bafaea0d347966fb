package lsp

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/lint"
)

// diagnosticSource names docsniff in editor problem lists.
const diagnosticSource = "docsniff"

// publishDiagnostics lints an open document and sends its findings.
// Documents that are not PHP get an empty list.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	if s.isPHP(doc) {
		result, err := s.analyzer.AnalyzeSource(URIToPath(uri), []byte(doc.Content))
		if err != nil {
			s.logger.Error("lint failed", "uri", uri, "error", err)
			s.sendNotification("window/showMessage", &ShowMessageParams{
				Type:    MessageTypeError,
				Message: "docsniff: " + err.Error(),
			})
		} else {
			for _, d := range result.Diagnostics {
				diagnostics = append(diagnostics, toLSPDiagnostic(doc, d))
			}
		}
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// isPHP reports whether doc should be linted.
func (s *Server) isPHP(doc *Document) bool {
	if strings.EqualFold(doc.LanguageID, "php") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(URIToPath(doc.URI)))
	return slices.Contains(s.extensions, ext)
}

// toLSPDiagnostic converts a finding to the protocol form. The range covers
// the rest of the anchor line.
func toLSPDiagnostic(doc *Document, d lint.Diagnostic) Diagnostic {
	line := max(0, d.Pos.Line-1)
	col := max(0, d.Pos.Column-1)
	end := max(col, len(doc.GetLine(line)))

	out := Diagnostic{
		Range: Range{
			Start: Position{Line: uint32(line), Character: uint32(col)}, //nolint:gosec // non-negative
			End:   Position{Line: uint32(line), Character: uint32(end)}, //nolint:gosec // non-negative
		},
		Severity: toLSPSeverity(d.Severity),
		Code:     d.Source(),
		Source:   diagnosticSource,
		Message:  d.Message,
	}

	href := d.DocumentationURL
	if href == "" {
		href = lint.BuildDocURL(d.RuleID)
	}
	if href != "" {
		out.CodeDescription = &CodeDescription{Href: href}
	}
	return out
}

// toLSPSeverity maps lint severities onto the protocol scale.
func toLSPSeverity(sev lint.Severity) DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityWarning:
		return DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityHint
	}
}
