package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/docsniff/internal/cli"
)

// generateCLIDocs writes an index plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	commands := documentedCommands(rootCmd)

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), cliIndex(rootCmd, commands), 0600); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range commands {
		name := cmd.Name() + ".md"
		if err := os.WriteFile(filepath.Join(outDir, name), commandPage(cmd, commands), 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documentedCommands returns the visible subcommands of root.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// cliIndex renders the CLI overview page.
func cliIndex(rootCmd *cobra.Command, commands []*cobra.Command) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for docsniff")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("docsniff checks PHP doc comments from the command line, keeps a history of lint runs and serves diagnostics to editors.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/docsniff/cmd/docsniff@latest")

	w.Header(2, "Basic Usage")
	w.CodeBlock("bash", "docsniff <command> [options]")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range commands {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Paragraph("These flags are available for all commands:")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set with a `DOCSNIFF_` variable:")
	w.Table([]string{"Variable", "Description"}, [][]string{
		{InlineCode("DOCSNIFF_OUTPUT"), "Default output format"},
		{InlineCode("DOCSNIFF_STATE_PATH"), "Run history database path"},
		{InlineCode("DOCSNIFF_JOBS"), "Files linted in parallel"},
		{InlineCode("DOCSNIFF_DOCS_URL"), "Base URL of rule documentation"},
		{InlineCode("DOCSNIFF_VERBOSE"), "Enable debug logging"},
	})
	w.Paragraph("Command-line flags take precedence over environment variables, which take precedence over `docsniff.yaml`. See [Configuration](/configuration).")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Lint issues found, or an error (check stderr for details)"},
	})

	w.Header(2, "Getting Help")
	w.CodeBlock("bash", `# General help
docsniff help
docsniff --help

# Command-specific help
docsniff lint --help`)

	return w.Bytes()
}

// commandPage renders the page of a single command.
func commandPage(cmd *cobra.Command, all []*cobra.Command) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	useLine := cmd.UseLine()
	if !strings.HasPrefix(useLine, "docsniff") {
		useLine = "docsniff " + useLine
	}
	w.CodeBlock("bash", useLine)

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	var related []string
	for _, other := range all {
		if other != cmd {
			related = append(related, fmt.Sprintf("[%s](/cli/%s)", InlineCode(other.Name()), other.Name()))
		}
	}
	if len(related) > 0 {
		w.Header(2, "See Also")
		w.Paragraph(strings.Join(related, ", "))
	}

	return w.Bytes()
}

// writeFlagsTable writes a table of flags.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		option := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			option = InlineCode("-"+f.Shorthand) + ", " + option
		}

		defVal := f.DefValue
		switch {
		case defVal == "" || defVal == "[]":
			defVal = ""
		case f.Value.Type() != "bool":
			defVal = InlineCode(defVal)
		}

		rows = append(rows, []string{option, flagType(f), defVal, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Type", "Default", "Description"}, rows)
}

// flagType names a flag's value type for readers, e.g. "list" for stringSlice.
func flagType(f *pflag.Flag) string {
	switch t := f.Value.Type(); t {
	case "stringSlice", "stringArray":
		return "list"
	default:
		return t
	}
}

// cleanExample strips the indentation shared by all non-blank lines.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent <= 0 {
		return strings.TrimSpace(example)
	}

	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
