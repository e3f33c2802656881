package app

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"doq/internal/core/errors"
	"doq/internal/engine/parser"
	"doq/internal/shared/util"
)

// Target is one source file and the line range doq works on.
type Target struct {
	Path  string
	Lines []string
	// Lo and Hi bound the processed slice of Lines.
	Lo, Hi int
}

// Slice is the part of the file being documented.
func (t Target) Slice() []string { return t.Lines[t.Lo:t.Hi] }

// Splice replaces the processed slice with replacement and returns the
// whole file.
func (t Target) Splice(replacement []string) []string {
	out := make([]string, 0, len(t.Lines)-(t.Hi-t.Lo)+len(replacement))
	out = append(out, t.Lines[:t.Lo]...)
	out = append(out, replacement...)
	return append(out, t.Lines[t.Hi:]...)
}

func (t Target) IsStdin() bool { return t.Path == StdinPath }

func newTarget(path, content string, start, end int) Target {
	lines := util.SplitLines(content)
	lo, hi := util.SliceBounds(len(lines), start, end)
	return Target{Path: path, Lines: lines, Lo: lo, Hi: hi}
}

// Targets resolves what this run processes: every Python file under the
// configured directory, or the single input file, or stdin. Targets with
// an empty line range are dropped.
func (a *App) Targets() ([]Target, error) {
	if a.Config.Recursive {
		root, err := filepath.Abs(a.Config.Directory)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "resolve directory")
		}
		files, err := ScanDirectories([]string{root}, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxOperation, "scan_directories")
		}

		targets := make([]Target, 0, len(files))
		for _, path := range files {
			t, err := a.LoadTarget(path)
			if err != nil {
				a.log.Warnw("failed to read file", "path", path, "error", err)
				continue
			}
			if t.Hi > t.Lo {
				targets = append(targets, t)
			}
		}
		return targets, nil
	}

	var t Target
	if a.input == "" || a.input == "-" {
		content, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "read stdin")
		}
		t = newTarget(StdinPath, string(content), a.Config.Start, a.Config.End)
	} else {
		path, err := filepath.Abs(a.input)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "resolve input path")
		}
		if t, err = a.LoadTarget(path); err != nil {
			return nil, err
		}
	}
	if t.Hi == t.Lo {
		return nil, nil
	}
	return []Target{t}, nil
}

// LoadTarget reads path and applies the configured line range.
func (a *App) LoadTarget(path string) (Target, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeInternal
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return Target{}, errors.AddContext(errors.Wrap(err, code, "read source"), errors.CtxPath, path)
	}
	return newTarget(path, string(content), a.Config.Start, a.Config.End), nil
}

// ScanDirectories lists Python files below paths in lexical order. Hidden
// directories and anything matching the exclude globs are skipped.
func ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	filter, err := util.NewPathFilter(excludeDirs, excludeFiles)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile exclude patterns")
	}

	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && filter.SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !parser.IsSupportedPath(path) || filter.SkipFile(d.Name()) {
				return nil
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "walk directory"), errors.CtxPath, root)
		}
	}

	return files, nil
}
