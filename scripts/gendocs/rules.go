package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/docsniff/pkg/core"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	_ "github.com/leapstack-labs/docsniff/pkg/lint/rules" // Register sniffs
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"commenting": "Rules about the presence, style and tags of doc comments.",
}

// generateRuleDocs writes an index plus one page per rule. Page names match
// the URLs built by lint.BuildDocURL.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := make([]core.RuleInfo, 0)
	for _, s := range lint.GetAll() {
		rules = append(rules, lint.GetRuleInfo(s))
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	if err := generateRulesIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, r := range rules {
		name := strings.ToLower(r.ID) + ".md"
		if err := os.WriteFile(filepath.Join(outDir, name), ruleDoc(r), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// generateRulesIndex generates the rules overview page.
func generateRulesIndex(outDir string, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()
	title := cases.Title(language.English)

	w.Frontmatter("Rules", "Doc comment rules checked by docsniff")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("docsniff ships **%d rules**.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in `docsniff.yaml`. Severities are overridden per diagnostic source:")
	w.CodeBlock("yaml", `lint:
  disabled: [DC02]               # disable a rule
  severity:
    DC01.MissingSinceTag: warning  # override one diagnostic
  rules:
    DC01:
      blacklist: []              # rule-specific option`)

	grouped := make(map[string][]core.RuleInfo)
	var groups []string
	for _, r := range rules {
		if _, ok := grouped[r.Group]; !ok {
			groups = append(groups, r.Group)
		}
		grouped[r.Group] = append(grouped[r.Group], r)
	}
	sort.Strings(groups)

	for _, group := range groups {
		w.Header(2, title.String(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		var rows [][]string
		for _, r := range grouped[group] {
			rows = append(rows, []string{
				fmt.Sprintf("[%s](./%s)", r.ID, strings.ToLower(r.ID)),
				InlineCode(r.Name),
				r.DefaultSeverity.String(),
				cleanDescription(r.Description),
			})
		}
		w.Table([]string{"ID", "Name", "Severity", "Description"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// ruleDoc renders the documentation page of a single rule.
func ruleDoc(r core.RuleInfo) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter(r.ID+" - "+r.Name, cleanDescription(r.Description))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", r.ID, r.Name))
	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(r.DefaultSeverity.String())))
	w.Newline()
	w.Paragraph(cleanDescription(r.Description))

	if len(r.Tokens) > 0 {
		w.Line(fmt.Sprintf("**Checks:** %s", strings.Join(r.Tokens, ", ")))
		w.Newline()
	}

	if r.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(strings.TrimSpace(r.Rationale))
	}

	if r.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("php", r.BadExample)
	}

	if r.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("php", r.GoodExample)
	}

	if r.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(strings.TrimSpace(r.Fix))
	}

	if len(r.ConfigKeys) > 0 {
		w.Header(2, "Configuration")
		var keys []string
		for _, k := range r.ConfigKeys {
			keys = append(keys, InlineCode(k))
		}
		w.Paragraph("This rule accepts the following options under `lint.rules." + r.ID + "`:")
		w.BulletList(keys)
	}

	return w.Bytes()
}
