package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsniff/internal/cli/config"
	"github.com/leapstack-labs/docsniff/internal/cli/output"
	"github.com/leapstack-labs/docsniff/internal/state"
	"github.com/leapstack-labs/docsniff/pkg/lint"
)

const cleanPHP = `<?php
/**
 * Invoice handling.
 *
 * @package   Billing
 * @author    Jane Doe <jane@example.com>
 * @copyright 2024 Acme Inc.
 * @license   MIT
 * @version   Release: 1.4.0
 */

namespace Acme\Billing;

/**
 * An invoice.
 *
 * @package Billing
 * @since   1.4.0
 */
final class Invoice {}
`

const dirtyPHP = "<?php\n\nclass Invoice {}\n"

// writeProject lays out files under a temp dir and makes it the working
// directory, so the default state path lands inside it.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, src := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	t.Chdir(root)
	return root
}

// executeLint runs a standalone lint command and returns its stdout. Errors
// are silenced as the root command does, so stdout holds only the report.
func executeLint(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewLintCommand()
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if stderr.Len() > 0 {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "disable", "severity", "rule", "metrics", "record", "watch"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{})
		require.NotNil(t, cfg)
		assert.False(t, cfg.IsDisabled("DC01"))
		assert.False(t, cfg.IsDisabled("DC02"))
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{Disable: []string{"DC02", " DC03"}})
		assert.True(t, cfg.IsDisabled("DC02"))
		assert.True(t, cfg.IsDisabled("DC03"))
		assert.False(t, cfg.IsDisabled("DC01"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &LintOptions{Rules: []string{"DC01"}})
		assert.False(t, cfg.IsDisabled("DC01"))
		for _, s := range lint.GetAll() {
			if s.ID() != "DC01" {
				assert.True(t, cfg.IsDisabled(s.ID()), "rule %q should be disabled", s.ID())
			}
		}
	})

	t.Run("project config", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"DC02"},
				Severity: map[string]string{"DC01.MissingSinceTag": "info"},
				Rules: map[string]config.RuleOptions{
					"DC01": {"blacklist": []any{}},
				},
			},
		}
		cfg := buildLintConfig(projectCfg, &LintOptions{})
		assert.True(t, cfg.IsDisabled("DC02"))
		assert.Equal(t, lint.SeverityInfo, cfg.GetSeverity("DC01.MissingSinceTag", lint.SeverityError))
		assert.Equal(t, lint.SeverityError, cfg.GetSeverity("DC01.Missing", lint.SeverityError))
		assert.NotNil(t, cfg.GetRuleOptions("DC01"))
	})
}

func TestFilterBySeverity(t *testing.T) {
	results := []lint.FileResult{
		{
			Path: "a.php",
			Diagnostics: []lint.Diagnostic{
				{RuleID: "DC01", Severity: lint.SeverityError},
				{RuleID: "DC01", Severity: lint.SeverityWarning},
				{RuleID: "DC01", Severity: lint.SeverityHint},
			},
		},
		{Path: "b.php", Diagnostics: []lint.Diagnostic{{RuleID: "DC02", Severity: lint.SeverityInfo}}},
	}

	tests := []struct {
		threshold string
		want      []int
	}{
		{"error", []int{1, 0}},
		{"warning", []int{2, 0}},
		{"info", []int{2, 1}},
		{"hint", []int{3, 1}},
		{"bogus", []int{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.threshold, func(t *testing.T) {
			filtered := filterBySeverity(results, tt.threshold)
			require.Len(t, filtered, 2)
			for i, n := range tt.want {
				assert.Len(t, filtered[i].Diagnostics, n)
			}
		})
	}
}

func TestNewRunRecord(t *testing.T) {
	metrics := lint.NewMetrics()
	metrics.RecordMetric(1, "Class has doc comment", "no")
	results := []lint.FileResult{
		{
			Path: "a.php",
			Diagnostics: []lint.Diagnostic{
				{RuleID: "DC01", Code: "Missing", Severity: lint.SeverityError},
				{RuleID: "DC02", Code: "Missing", Severity: lint.SeverityError},
				{RuleID: "DC02", Code: "InvalidVersion", Severity: lint.SeverityWarning},
			},
			Metrics: metrics,
		},
		{Path: "b.php", Diagnostics: []lint.Diagnostic{{RuleID: "DC01", Code: "Missing", Severity: lint.SeverityHint}}},
	}

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRunRecord(results, started, 2*time.Second)

	assert.Equal(t, started, rec.StartedAt)
	assert.Equal(t, 2*time.Second, rec.Duration)
	assert.Equal(t, 2, rec.Files)
	assert.Equal(t, 2, rec.Errors)
	assert.Equal(t, 1, rec.Warnings)
	assert.Equal(t, 1, rec.Notices)
	assert.Equal(t, []state.SourceCount{
		{Source: "DC01.Missing", Count: 2},
		{Source: "DC02.InvalidVersion", Count: 1},
		{Source: "DC02.Missing", Count: 1},
	}, rec.Findings)
	assert.Equal(t, []state.MetricCount{{Name: "Class has doc comment", Value: "no", Count: 1}}, rec.Metrics)
}

func TestLintCommand_Clean(t *testing.T) {
	writeProject(t, map[string]string{"src/Invoice.php": cleanPHP})

	out, err := executeLint(t, "--format", "markdown", "src")
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found in 1 files")
}

func TestLintCommand_Issues(t *testing.T) {
	writeProject(t, map[string]string{
		"src/Invoice.php":      cleanPHP,
		"src/Legacy.php":       dirtyPHP,
		"vendor/lib/Other.php": dirtyPHP,
	})

	out, err := executeLint(t, "--format", "json", "--metrics", ".")
	require.Error(t, err)
	assert.Equal(t, "lint issues found", err.Error())

	assert.NotContains(t, out, "Error:")

	var result output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.FilesAnalyzed, "vendor is excluded by default")
	assert.Equal(t, 2, result.Summary.Errors)
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join("src", "Legacy.php"), result.Files[0].Path)
	assert.Equal(t, "DC02.Missing", result.Files[0].Diagnostics[0].Source)
	assert.Equal(t, "DC01.Missing", result.Files[0].Diagnostics[1].Source)
	assert.NotEmpty(t, result.Metrics)
}

func TestLintCommand_RuleSelection(t *testing.T) {
	writeProject(t, map[string]string{"Legacy.php": dirtyPHP})

	t.Run("disable", func(t *testing.T) {
		out, err := executeLint(t, "--format", "json", "--disable", "DC01,DC02", ".")
		require.NoError(t, err)
		assert.Contains(t, out, `"total_issues": 0`)
	})

	t.Run("only", func(t *testing.T) {
		out, err := executeLint(t, "--format", "json", "--rule", "DC01", ".")
		require.Error(t, err)
		assert.Contains(t, out, "DC01.Missing")
		assert.NotContains(t, out, "DC02.Missing")
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := executeLint(t, "--rule", "XX99", ".")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("invalid severity", func(t *testing.T) {
		_, err := executeLint(t, "--severity", "fatal", ".")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid severity")
	})
}

func TestLintCommand_MissingPath(t *testing.T) {
	writeProject(t, nil)
	_, err := executeLint(t, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestLintCommand_RecordAndHistory(t *testing.T) {
	root := writeProject(t, map[string]string{"Legacy.php": dirtyPHP})

	_, err := executeLint(t, "--format", "json", "--record", ".")
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(root, ".docsniff", "state.db"))

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "json"})
	require.NoError(t, cmd.Execute())

	var runs []state.Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Files)
	assert.Equal(t, 2, runs[0].Errors)

	cmd = NewHistoryCommand()
	buf.Reset()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "markdown", runs[0].ID})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "# Run "+runs[0].ID)
	assert.Contains(t, buf.String(), "| DC01.Missing | 1 |")
	assert.Contains(t, buf.String(), "| Class has doc comment | no | 1 |")
}
