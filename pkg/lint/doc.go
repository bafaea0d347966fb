// Package lint runs token-driven sniffs over PHP source files.
//
// # Architecture
//
// A sniff declares the token kinds it listens for. The Analyzer lexes a
// file once, then calls each enabled sniff for every matching token with a
// *File, the sniff's view of the stream plus its reporting sinks:
//
//	lexer.Tokenize -> token.Stream -> Analyzer -> ProcessFunc(f, index)
//	                                                  |
//	                               f.AddError / f.AddWarning / f.RecordMetric
//
// # Sniff Registration
//
// Sniffs register themselves via init() functions when their packages are
// imported:
//
//	import _ "github.com/leapstack-labs/docsniff/pkg/lint/rules/commenting"
//
// # Configuration
//
// Use Config to control which sniffs run, their severity and their options:
//
//	config := lint.NewConfig()
//	config.Disable("DC02")
//	config.SetSeverity("DC01.InvalidVersion", lint.SeverityError)
//	config.SetRuleOptions("DC01", map[string]any{"required": []string{"@package"}})
//
// Severity overrides apply to a whole sniff ("DC01") or to one diagnostic
// code ("DC01.MissingSinceTag"); the code-level override wins.
//
// # Creating Custom Sniffs
//
//	lint.Register(lint.SniffDef{
//		ID:       "MY01",
//		Name:     "custom.my_sniff",
//		Group:    "custom",
//		Severity: lint.SeverityWarning,
//		Tokens:   []token.Kind{token.Function},
//		Process: func(f *lint.File, i int) {
//			f.AddWarning("Function %s found", i, "Found", f.DeclarationName(i))
//		},
//	})
package lint
