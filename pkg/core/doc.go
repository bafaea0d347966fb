// Package core defines the shared language of docsniff.
//
// This package contains:
//   - Severity levels shared by sniffs, reporters and renderers
//   - Rule metadata (RuleInfo) used by documentation and tooling
//   - Configuration types embedded in docsniff.yaml (LintConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
