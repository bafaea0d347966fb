package core

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps a rule ID, or a "RULE.Code" source, to a severity override
	// (error, warning, info, hint). Sources contain the key delimiter, so
	// loaders fill this from flattened keys instead of unmarshaling it.
	Severity map[string]string `koanf:"-"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any
