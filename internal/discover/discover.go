// Package discover finds the source files to lint.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls which files are picked up.
type Options struct {
	// Extensions lists the accepted file extensions, e.g. ".php".
	Extensions []string
	// Exclude holds doublestar globs matched against the slash-separated
	// path relative to the walked root, and against the base name.
	Exclude []string
}

// Validate checks every exclude pattern.
func (o Options) Validate() error {
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Files walks roots and returns the matching files, sorted and deduplicated.
// A root that is a file is returned as long as it is not excluded, whatever
// its extension.
func Files(ctx context.Context, roots []string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if !opts.excluded(filepath.Base(root)) {
				add(filepath.Clean(root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil
			}
			if opts.excluded(filepath.ToSlash(rel)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !opts.accepts(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (o Options) accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range o.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (o Options) excluded(rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, p := range o.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// Accepts reports whether path lies under the directory root and would be
// linted under opts. It is used by watchers that see individual file events
// rather than walking a tree.
func (o Options) Accepts(root, path string) bool {
	if !o.accepts(path) {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !o.excluded(filepath.ToSlash(rel))
}

// Dirs returns the directories a watcher must observe to see every file
// Files would return: each directory root with its non-excluded
// subdirectories, and the parent of each file root.
func Dirs(ctx context.Context, roots []string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && opts.excluded(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}
