// Package template renders docstring bodies from named template files.
package template

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"slices"
	"strings"
	gotemplate "text/template"

	"doq/internal/core/errors"
)

//go:embed templates
var bundles embed.FS

// Template names. Each maps to "<name>.txt" inside a bundle directory.
const (
	NoArg = "noarg"
	Def   = "def"
	Class = "class"
)

// Formatters lists the built-in bundles.
var Formatters = []string{"sphinx", "google", "numpy"}

var names = []string{NoArg, Def, Class}

// Param is one documented parameter.
type Param struct {
	Argument   string
	Annotation string
	Default    string
}

// Params is the data passed to every template: the full definition record.
// Lines are 1-indexed, columns 0-indexed.
type Params struct {
	// Kind is "function" or "class".
	Kind         string
	Name         string
	StartLine    int
	StartColumn  int
	EndLine      int
	EndColumn    int
	HasDocstring bool
	IsAsync      bool
	Decorators   []string

	Params     []Param
	ReturnType string
	Exceptions []string
	Yields     []string
	// Defs lists the nested definitions of a class.
	Defs []Params
}

// Renderer holds a parsed bundle. It is immutable after construction and
// safe for concurrent use.
type Renderer struct {
	source    string
	raw       map[string]string
	templates map[string]*gotemplate.Template
}

// New returns the renderer for templatePath when set, otherwise the
// built-in bundle named by formatter.
func New(formatter, templatePath string) (*Renderer, error) {
	if templatePath != "" {
		return NewFromDir(templatePath)
	}
	return NewBuiltin(formatter)
}

func NewBuiltin(formatter string) (*Renderer, error) {
	if !slices.Contains(Formatters, formatter) {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotFound, "unknown formatter: "+formatter),
			errors.CtxTemplate, formatter,
		)
	}
	sub, err := fs.Sub(bundles, "templates/"+formatter)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "open built-in templates")
	}
	return load(sub, formatter)
}

func NewFromDir(dir string) (*Renderer, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotFound, "template path not found: "+dir),
			errors.CtxPath, dir,
		)
	}
	return load(os.DirFS(dir), dir)
}

func load(fsys fs.FS, source string) (*Renderer, error) {
	r := &Renderer{
		source:    source,
		raw:       make(map[string]string, len(names)),
		templates: make(map[string]*gotemplate.Template, len(names)),
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name+".txt")
		if err != nil {
			// Missing files surface as CodeNotFound when rendered.
			continue
		}
		tpl, err := gotemplate.New(name).Option("missingkey=zero").Parse(string(data))
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "parse template "+name+".txt"),
				errors.CtxTemplate, name,
			)
		}
		r.raw[name] = string(data)
		r.templates[name] = tpl
	}
	return r, nil
}

// Source names the bundle: a formatter or a directory path.
func (r *Renderer) Source() string { return r.source }

// Render executes the named template. A single trailing newline is
// dropped so template files may end with one.
func (r *Renderer) Render(name string, params Params) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", errors.AddContext(
			errors.New(errors.CodeNotFound, "template not found: "+name+".txt"),
			errors.CtxTemplate, name,
		)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, params); err != nil {
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "render template "+name+".txt"),
			errors.CtxTemplate, name,
		)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// References reports whether the named template mentions field. The check
// is textual and case-insensitive.
func (r *Renderer) References(name, field string) bool {
	raw, ok := r.raw[name]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(raw), strings.ToLower(field))
}
