package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Lint != nil {
		for source, sev := range c.Lint.Severity {
			if _, ok := core.ParseSeverity(sev); !ok {
				return fmt.Errorf("lint.severity.%s: unknown severity %q", source, sev)
			}
		}
	}
	return nil
}
