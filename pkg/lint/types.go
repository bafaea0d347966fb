package lint

import (
	"github.com/leapstack-labs/docsniff/pkg/core"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// =============================================================================
// Severity
// =============================================================================

// Severity is re-exported from core so sniff packages only need lint.
type Severity = core.Severity

// Severity levels for diagnostics.
const (
	SeverityError   = core.SeverityError
	SeverityWarning = core.SeverityWarning
	SeverityInfo    = core.SeverityInfo
	SeverityHint    = core.SeverityHint
)

// ParseSeverity converts a string to a Severity value.
func ParseSeverity(s string) (Severity, bool) {
	return core.ParseSeverity(s)
}

// =============================================================================
// Sniff Definitions
// =============================================================================

// ProcessFunc is called once for every token a sniff listens for.
// Findings are reported through the File; a ProcessFunc never fails.
type ProcessFunc func(f *File, index int)

// SetupFunc builds an option-specific ProcessFunc. It runs once per
// Analyzer, so anything expensive (policy files, regexps) belongs here.
type SetupFunc func(opts map[string]any) (ProcessFunc, error)

// SniffDef is a data-driven sniff definition.
// Sniffs are stateless - all context comes via the File and token index.
type SniffDef struct {
	ID          string        // Unique identifier, e.g., "DC01"
	Name        string        // Human-readable name, e.g., "commenting.class_comment"
	Group       string        // Category, e.g., "commenting"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Tokens      []token.Kind  // Token kinds the sniff listens for
	ConfigKeys  []string      // Configuration keys this sniff accepts
	Process     ProcessFunc   // Used when Setup is nil
	Setup       SetupFunc     // Optional: builds Process from rule options

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Code     string // Sniff-specific code, e.g., "MissingSinceTag"
	Severity core.Severity
	Message  string
	Index    int            // Token index the finding is anchored to
	Pos      token.Position // Position of that token
	Data     []any          // Values substituted into Message

	DocumentationURL string // URL to rule documentation
}

// Source returns the fully qualified code, e.g., "DC01.MissingSinceTag".
func (d Diagnostic) Source() string {
	if d.Code == "" {
		return d.RuleID
	}
	return d.RuleID + "." + d.Code
}

// =============================================================================
// Sniff Interface
// =============================================================================

// Sniff is the interface all lint sniffs implement.
type Sniff interface {
	// ID returns the unique identifier, e.g., "DC01"
	ID() string

	// Name returns the human-readable name, e.g., "commenting.class_comment"
	Name() string

	// Group returns the category, e.g., "commenting"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this sniff
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this sniff accepts
	ConfigKeys() []string

	// Tokens returns the token kinds this sniff listens for
	Tokens() []token.Kind

	// Setup builds the per-analyzer processing function from rule options
	Setup(opts map[string]any) (ProcessFunc, error)

	// Documentation methods for richer rule documentation
	Rationale() string   // Why this rule exists, what problems it prevents
	BadExample() string  // Code showing the anti-pattern
	GoodExample() string // Code showing the correct pattern
	Fix() string         // How to fix violations (when not obvious)
}

// GetRuleInfo extracts metadata from a Sniff for documentation/tooling.
func GetRuleInfo(s Sniff) core.RuleInfo {
	kinds := s.Tokens()
	tokens := make([]string, len(kinds))
	for i, k := range kinds {
		tokens[i] = k.String()
	}

	return core.RuleInfo{
		ID:              s.ID(),
		Name:            s.Name(),
		Group:           s.Group(),
		Description:     s.Description(),
		DefaultSeverity: s.DefaultSeverity(),
		ConfigKeys:      s.ConfigKeys(),
		Tokens:          tokens,
		Type:            "sniff",
		Rationale:       s.Rationale(),
		BadExample:      s.BadExample(),
		GoodExample:     s.GoodExample(),
		Fix:             s.Fix(),
	}
}

// =============================================================================
// Wrapped SniffDef
// =============================================================================

// wrappedSniffDef wraps a SniffDef to implement Sniff.
type wrappedSniffDef struct {
	def SniffDef
}

// WrapSniffDef wraps a SniffDef to implement the Sniff interface.
func WrapSniffDef(def SniffDef) Sniff {
	return &wrappedSniffDef{def: def}
}

func (w *wrappedSniffDef) ID() string                     { return w.def.ID }
func (w *wrappedSniffDef) Name() string                   { return w.def.Name }
func (w *wrappedSniffDef) Group() string                  { return w.def.Group }
func (w *wrappedSniffDef) Description() string            { return w.def.Description }
func (w *wrappedSniffDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedSniffDef) ConfigKeys() []string           { return w.def.ConfigKeys }
func (w *wrappedSniffDef) Tokens() []token.Kind           { return w.def.Tokens }

// Documentation methods
func (w *wrappedSniffDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedSniffDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedSniffDef) GoodExample() string { return w.def.GoodExample }
func (w *wrappedSniffDef) Fix() string         { return w.def.Fix }

func (w *wrappedSniffDef) Setup(opts map[string]any) (ProcessFunc, error) {
	if w.def.Setup != nil {
		return w.def.Setup(opts)
	}
	return w.def.Process, nil
}

// Unwrap returns the underlying SniffDef.
func (w *wrappedSniffDef) Unwrap() SniffDef {
	return w.def
}
