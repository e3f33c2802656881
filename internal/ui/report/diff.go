package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	added   = color.New(color.FgGreen).SprintFunc()
	removed = color.New(color.FgRed).SprintFunc()
	hunk    = color.New(color.FgCyan).SprintFunc()
	header  = color.New(color.Bold).SprintFunc()
)

// UnifiedDiff returns a unified diff of before and after with three lines
// of context. Identical inputs give an empty string.
func UnifiedDiff(path string, before, after []string) (string, error) {
	name := displayPath(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminated(before),
		B:        terminated(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// terminated gives every line its newline. difflib.SplitLines would add an
// empty trailing line for text that already ends in one.
func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

// displayPath makes absolute paths relative to the working directory when
// they live under it, and never starts with a slash.
func displayPath(path string) string {
	if filepath.IsAbs(path) {
		if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
	}
	return strings.TrimLeft(filepath.ToSlash(path), "/")
}

// Colorize highlights a unified diff. Colours follow fatih/color's
// terminal detection.
func Colorize(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(header(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(hunk(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(added(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(removed(body))
		default:
			b.WriteString(body)
		}
		b.WriteString(nl)
	}
	return b.String()
}
