// Package rules provides the docsniff sniff implementations.
//
// Sniffs are organized by category:
//   - commenting: doc comment presence and tag policy (DC01-DC02)
//
// To register all sniffs with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/docsniff/pkg/lint/rules"
package rules
