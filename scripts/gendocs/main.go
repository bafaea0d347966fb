// Package main provides a generator that extracts CLI, configuration and
// rule metadata from docsniff source code and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs
//	go run ./scripts/gendocs -gen=rules -outdir=docs/rules
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, rules, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps each -gen value to its generator and default directory
// below docs/.
var generators = map[string]struct {
	run    func(outDir string) error
	subdir string
}{
	"cli":    {generateCLIDocs, "cli"},
	"config": {generateConfigDocs, ""},
	"rules":  {generateRuleDocs, "rules"},
}

func main() {
	flag.Parse()

	if _, ok := generators[*genFlag]; !ok && *genFlag != "all" {
		log.Fatalf("unknown -gen value: %s (use: cli, config, rules, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := run(*genFlag, *outDirFlag, filepath.Join(projectRoot, "docs")); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

// run executes one generator, or all of them when gen is "all". outDir
// overrides the default directory for a single generator.
func run(gen, outDir, docsDir string) error {
	names := []string{gen}
	if gen == "all" {
		names = []string{"cli", "config", "rules"}
		outDir = ""
	}

	for _, name := range names {
		g := generators[name]
		dir := outDir
		if dir == "" {
			dir = filepath.Join(docsDir, g.subdir)
		}
		if err := g.run(dir); err != nil {
			return fmt.Errorf("failed to generate %s docs: %w", name, err)
		}
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
