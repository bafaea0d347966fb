package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsniff/internal/cli/output"
	"github.com/leapstack-labs/docsniff/pkg/core"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	_ "github.com/leapstack-labs/docsniff/pkg/lint/rules" // register sniffs
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (e.g., commenting).
Use --verbose to see the rationale of each rule.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  docsniff rules

  # Show details for a specific rule
  docsniff rules DC01

  # List rules in the commenting group
  docsniff rules --group commenting

  # Output as JSON
  docsniff rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	rules := filterRules(lint.AllRules(), opts.Group)
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
	}

	r.Header(1, fmt.Sprintf("Lint Rules (%d)", len(rules)))
	if r.EffectiveMode() == output.ModeText {
		r.Println("")
	}

	for _, group := range groupRules(rules) {
		r.Header(2, r.Title(group.name))
		rows := make([][]any, 0, len(group.rules))
		for _, rule := range group.rules {
			row := []any{rule.ID, rule.Name, rule.DefaultSeverity.String(), rule.Description}
			if opts.Verbose {
				row = append(row, truncateOneLine(rule.Rationale, 80))
			}
			rows = append(rows, row)
		}
		header := []string{"ID", "Name", "Severity", "Description"}
		if opts.Verbose {
			header = append(header, "Why")
		}
		r.Table(header, rows)
		r.Println("")
	}

	r.Muted("Use 'docsniff rules <rule-id>' for detailed documentation")
	return nil
}

type ruleGroup struct {
	name  string
	rules []core.RuleInfo
}

// groupRules splits rules sorted by group into consecutive groups.
func groupRules(rules []core.RuleInfo) []ruleGroup {
	var groups []ruleGroup
	for _, rule := range rules {
		if len(groups) == 0 || groups[len(groups)-1].name != rule.Group {
			groups = append(groups, ruleGroup{name: rule.Group})
		}
		last := &groups[len(groups)-1]
		last.rules = append(last.rules, rule)
	}
	return groups
}

func filterRules(rules []core.RuleInfo, group string) []core.RuleInfo {
	if group == "" {
		return rules
	}
	var filtered []core.RuleInfo
	for _, r := range rules {
		if strings.EqualFold(r.Group, group) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	s, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := lint.GetRuleInfo(s)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, &rule)
	default:
		showRuleText(r, &rule)
	}
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.SeverityStyle(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Tokens"), strings.Join(rule.Tokens, ", "))
	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), lint.BuildDocURL(rule.ID))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Tokens:** %s\n\n",
		rule.Group, rule.DefaultSeverity.String(), strings.Join(rule.Tokens, ", "))
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	for _, ex := range []struct{ title, code string }{
		{"Bad Example", rule.BadExample},
		{"Good Example", rule.GoodExample},
	} {
		if ex.code == "" {
			continue
		}
		r.Println("## " + ex.title)
		r.Println("")
		r.Println("```php")
		r.Println(ex.code)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("See %s\n", lint.BuildDocURL(rule.ID))
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
