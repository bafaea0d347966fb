package rules

// Import all sniff subpackages to register them with the global registry.
// This file triggers all init() functions in the sniff packages.
import (
	_ "github.com/leapstack-labs/docsniff/pkg/lint/rules/commenting"
)
