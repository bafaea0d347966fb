package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

const severityPrefix = "lint.severity."

// Package-level config file tracking
var (
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configExistsIn returns the docsniff config file in dir, or "".
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a docsniff config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig clears the loaded state. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"paths":      []string{"."},
		"extensions": DefaultExtensions,
		"exclude":    DefaultExclude,
		"state_path": DefaultStateFile,
		"verbose":    false,
		"output":     DefaultOutput,
		"jobs":       DefaultJobs,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	projectRoot := cwd
	configFileUsed = cfgFile
	if configFileUsed == "" {
		configFileUsed = findConfigUpward(cwd)
	}
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (DOCSNIFF_ prefix)
	// Transform: DOCSNIFF_STATE_PATH -> state_path
	if err := k.Load(env.Provider("DOCSNIFF_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCSNIFF_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagStatePath string
	if flags != nil {
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagStatePath, _ = filepath.Abs(v)
			}
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "config":
				return "", nil
			case "state":
				// --state is short for the state_path config key
				return "state_path", posflag.FlagVal(flags, f)
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if sev := severities(k); len(sev) > 0 {
		if cfg.Lint == nil {
			cfg.Lint = &LintConfig{}
		}
		cfg.Lint.Severity = sev
	}

	// 6. Resolve relative paths against the project root
	cfg.ProjectRoot = projectRoot
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	for i, p := range cfg.Paths {
		cfg.Paths[i] = resolvePathRelativeTo(p, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// severities collects lint.severity entries from flattened keys, so that
// "lint.severity.DC01.InvalidVersion" keeps "DC01.InvalidVersion" intact.
func severities(k *koanf.Koanf) map[string]string {
	out := make(map[string]string)
	for key, val := range k.All() {
		if !strings.HasPrefix(key, severityPrefix) {
			continue
		}
		out[strings.TrimPrefix(key, severityPrefix)] = fmt.Sprint(val)
	}
	return out
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
