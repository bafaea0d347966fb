// Package commenting contains the doc comment sniffs.
package commenting
