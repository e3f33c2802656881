package util

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// PathFilter decides which directories and files a scan skips. Names are
// base names; hidden directories are always skipped.
type PathFilter struct {
	dirs  []glob.Glob
	files []glob.Glob
}

func NewPathFilter(excludeDirs, excludeFiles []string) (*PathFilter, error) {
	dirs, err := compileGlobs(excludeDirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	files, err := compileGlobs(excludeFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}
	return &PathFilter{dirs: dirs, files: files}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// SkipDir reports whether a directory below the scan root is skipped.
func (f *PathFilter) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, g := range f.dirs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (f *PathFilter) SkipFile(name string) bool {
	for _, g := range f.files {
		if g.Match(name) {
			return true
		}
	}
	return false
}
