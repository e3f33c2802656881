// Package docstring decides which definitions need a docstring and renders
// one for each.
package docstring

import (
	"sort"

	"doq/internal/core/errors"
	"doq/internal/engine/parser"
	"doq/internal/engine/template"
)

const constructorName = "__init__"

// Renderer is the template capability the generator needs.
type Renderer interface {
	Render(name string, params template.Params) (string, error)
	References(name, field string) bool
}

type Options struct {
	IgnoreException bool
	IgnoreYield     bool
	// IgnoreInit skips __init__ methods; numpy style documents the
	// constructor on the class instead.
	IgnoreInit bool
}

// Placement is one rendered docstring and the definition span it belongs to.
type Placement struct {
	Name        string
	Template    string
	Text        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

type Generator struct {
	renderer Renderer
	opts     Options
}

func NewGenerator(renderer Renderer, opts Options) *Generator {
	return &Generator{renderer: renderer, opts: opts}
}

// CollectExceptions reports whether raised exceptions affect output: not
// ignored and mentioned by the def template.
func (g *Generator) CollectExceptions() bool {
	return !g.opts.IgnoreException && g.renderer.References(template.Def, "exceptions")
}

// CollectYields is CollectExceptions for yielded values.
func (g *Generator) CollectYields() bool {
	return !g.opts.IgnoreYield && g.renderer.References(template.Def, "yields")
}

// ParserOptions returns extraction options matching what the generator
// will render.
func (g *Generator) ParserOptions(omissions []string) parser.Options {
	return parser.Options{
		Omissions:       omissions,
		IgnoreException: !g.CollectExceptions(),
		IgnoreYield:     !g.CollectYields(),
	}
}

// Generate renders a docstring for every undocumented definition, nested
// ones included, ordered by start line.
func (g *Generator) Generate(defs []parser.Definition) ([]Placement, error) {
	w := &walker{
		g:          g,
		exceptions: g.CollectExceptions(),
		yields:     g.CollectYields(),
		placements: make([]Placement, 0, len(defs)),
	}
	if err := w.visit(defs, false); err != nil {
		return nil, err
	}
	sort.SliceStable(w.placements, func(i, j int) bool {
		return w.placements[i].StartLine < w.placements[j].StartLine
	})
	return w.placements, nil
}

type walker struct {
	g          *Generator
	exceptions bool
	yields     bool
	placements []Placement
}

func (w *walker) visit(defs []parser.Definition, inClass bool) error {
	for _, def := range defs {
		skip := def.HasDocstring ||
			(inClass && w.g.opts.IgnoreInit && !def.IsClass() && def.Name == constructorName)
		if !skip {
			if err := w.place(def); err != nil {
				return err
			}
		}
		if err := w.visit(def.Children, def.IsClass()); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) place(def parser.Definition) error {
	name := w.templateFor(def)
	text, err := w.g.renderer.Render(name, params(def))
	if err != nil {
		return errors.AddContext(err, errors.CtxLine, def.Start.Line)
	}

	p := Placement{
		Name:        def.Name,
		Template:    name,
		Text:        text,
		StartLine:   def.Start.Line,
		StartColumn: def.Start.Column,
		EndLine:     def.End.Line,
		EndColumn:   def.Start.Column,
	}
	if def.IsClass() {
		p.EndColumn = def.End.Column
	}
	w.placements = append(w.placements, p)
	return nil
}

func (w *walker) templateFor(def parser.Definition) string {
	switch {
	case def.IsClass():
		return template.Class
	case len(def.Params) > 0,
		def.ReturnType != "",
		w.exceptions && len(def.Exceptions) > 0,
		w.yields && len(def.Yields) > 0:
		return template.Def
	default:
		return template.NoArg
	}
}

func params(def parser.Definition) template.Params {
	p := template.Params{
		Kind:         def.Kind.String(),
		Name:         def.Name,
		StartLine:    def.Start.Line,
		StartColumn:  def.Start.Column,
		EndLine:      def.End.Line,
		EndColumn:    def.End.Column,
		HasDocstring: def.HasDocstring,
		IsAsync:      def.IsAsync,
		Decorators:   def.Decorators,
		ReturnType:   def.ReturnType,
		Exceptions:   def.Exceptions,
		Yields:       def.Yields,
	}
	if len(def.Params) > 0 {
		p.Params = make([]template.Param, len(def.Params))
		for i, param := range def.Params {
			p.Params[i] = template.Param{
				Argument:   param.Argument,
				Annotation: param.Annotation,
				Default:    param.Default,
			}
		}
	}
	if def.IsClass() {
		p.Defs = make([]template.Params, len(def.Children))
		for i, child := range def.Children {
			p.Defs[i] = params(child)
		}
	}
	return p
}
