package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/docsniff/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema returns the docsniff.yaml keys.
// This mirrors internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "paths", Type: "[]string", Default: "[.]", Description: "Files and directories linted when no path argument is given"},
		{Name: "extensions", Type: "[]string", Default: "[" + strings.Join(config.DefaultExtensions, ", ") + "]", Description: "File extensions treated as PHP"},
		{Name: "exclude", Type: "[]string", Default: "[" + strings.Join(config.DefaultExclude, ", ") + "]", Description: "Glob patterns skipped during discovery (`**` supported)"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Enable debug logging"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "Run history database"},
		{Name: "jobs", Type: "int", Default: fmt.Sprint(config.DefaultJobs), Description: "Files linted in parallel (0 for no limit)"},
		{Name: "docs_url", Type: "string", Default: "-", Description: "Base URL of rule documentation"},
		{Name: "lint.disabled", Type: "[]string", Default: "-", Description: "Rule IDs to skip"},
		{Name: "lint.severity", Type: "map[string]string", Default: "-", Description: "Severity per rule ID or diagnostic source"},
		{Name: "lint.rules", Type: "map[string]map", Default: "-", Description: "Options per rule ID"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "docsniff configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("docsniff reads `docsniff.yaml` (or `.yml`), searched upward from the working directory. " +
		"Environment variables prefixed with `DOCSNIFF_` override the file, and command-line flags override both.")

	w.Header(2, "Settings")
	var rows [][]string
	for _, f := range getConfigSchema() {
		rows = append(rows, []string{InlineCode(f.Name), f.Type, InlineCode(f.Default), f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)

	w.Header(2, "Tag Policy Options")
	w.Paragraph("DC01 and DC02 accept the same options under `lint.rules.<ID>`:")
	w.Table(
		[]string{"Option", "Description"},
		[][]string{
			{InlineCode("required"), "Additional tags that must be present"},
			{InlineCode("allow_multiple"), "Additional tags that may repeat"},
			{InlineCode("blacklist"), "Forbidden tags; an empty list clears the default"},
			{InlineCode("blacklist_severity"), "Severity of forbidden tag findings"},
			{InlineCode("policy_file"), "YAML file with an ordered `tags` mapping and a `blacklist`"},
		},
	)

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# docsniff.yaml
paths: [src]
exclude: ["vendor/**", "tests/fixtures/**"]
output: auto
jobs: 4

lint:
  disabled: []
  severity:
    DC01.MissingSinceTag: warning
  rules:
    DC01:
      blacklist: []
      required: ["@package"]
    DC02:
      policy_file: .docsniff/file-policy.yaml`)

	w.Header(2, "Policy File")
	w.CodeBlock("yaml", `# Tags in canonical order
tags:
  "@package": {required: true}
  "@author": {allow_multiple: true}
  "@license": {}
  "@since": {}
blacklist: ["@version"]`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
