// Package config provides configuration management for the docsniff CLI.
//
// Configuration is layered: defaults, then docsniff.yaml, then DOCSNIFF_
// environment variables, then explicitly set flags.
package config

import "github.com/leapstack-labs/docsniff/pkg/core"

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	Paths        []string    `koanf:"paths"`
	Extensions   []string    `koanf:"extensions"`
	Exclude      []string    `koanf:"exclude"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	StatePath    string      `koanf:"state_path"`
	Jobs         int         `koanf:"jobs"`
	DocsURL      string      `koanf:"docs_url"`
	Lint         *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding docsniff.yaml, or the working
	// directory when there is none. Not read from the file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".docsniff/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs      = 0      // one job per file, bounded by the scheduler
)

// DefaultExtensions are the file extensions linted by default.
var DefaultExtensions = []string{".php", ".inc"}

// DefaultExclude skips dependency and VCS directories.
var DefaultExclude = []string{"vendor/**", "node_modules/**", ".git/**"}

// ConfigFileName is the name of the config file.
const ConfigFileName = "docsniff.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "docsniff.yml"
