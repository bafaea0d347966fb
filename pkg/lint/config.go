package lint

import (
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/core"
)

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the severity of a rule ("DC01") or of a
	// single code ("DC01.InvalidVersion"); the code wins
	SeverityOverrides map[string]Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// ConfigFromLint builds a Config from the lint section of docsniff.yaml.
// Unknown severities are ignored.
func ConfigFromLint(lc *core.LintConfig) *Config {
	c := NewConfig()
	if lc == nil {
		return c
	}
	for _, id := range lc.Disabled {
		c.Disable(strings.TrimSpace(id))
	}
	for id, sev := range lc.Severity {
		if s, ok := ParseSeverity(sev); ok {
			c.SetSeverity(id, s)
		}
	}
	for id, opts := range lc.Rules {
		c.SetRuleOptions(id, opts)
	}
	return c
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a diagnostic source such as
// "DC01.MissingSinceTag", applying the most specific override.
func (c *Config) GetSeverity(source string, defaultSeverity Severity) Severity {
	if c == nil {
		return defaultSeverity
	}
	if sev, ok := c.SeverityOverrides[source]; ok {
		return sev
	}
	if i := strings.IndexByte(source, '.'); i > 0 {
		if sev, ok := c.SeverityOverrides[source[:i]]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule or a single code.
func (c *Config) SetSeverity(source string, severity Severity) *Config {
	c.SeverityOverrides[source] = severity
	return c
}

// SetRuleOptions sets rule-specific options.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
