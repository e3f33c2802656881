package parser

type DefinitionKind int

const (
	KindFunction DefinitionKind = iota
	KindClass
)

func (k DefinitionKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Position is a source location: 1-indexed line, 0-indexed byte column.
type Position struct {
	Line   int
	Column int
}

// Definition is one function or class declaration site.
type Definition struct {
	Kind         DefinitionKind
	Name         string
	Start        Position
	End          Position
	HasDocstring bool
	IsAsync      bool
	Decorators   []string // decorator text without the leading '@'

	// Function-only metadata.
	Params     []Parameter
	ReturnType string   // literal annotation text, empty when not declared
	Exceptions []string // leading token of each raised expression
	Yields     []string // leading token of each yielded expression

	// Children holds nested definitions ordered by sortKey: methods and
	// nested classes for a class, nested functions and classes for a function.
	Children []Definition
}

func (d Definition) IsClass() bool { return d.Kind == KindClass }

// sortKey orders a class by its first child so class-level docstrings
// interleave with sibling functions by where their bodies begin.
func (d Definition) sortKey() int {
	if d.Kind == KindClass && len(d.Children) > 0 {
		return d.Children[0].Start.Line
	}
	return d.Start.Line
}

type Parameter struct {
	Argument   string
	Annotation string // empty when not annotated
	Default    string // empty when no default value
}

// Options controls extraction. It is passed by value and never mutated
// during a walk.
type Options struct {
	// Omissions are dropped when they name the first parameter of a
	// module-level function.
	Omissions []string
	// MethodOmissions are dropped when they name the first parameter of a
	// method. Omissions apply to methods as well.
	MethodOmissions []string
	// IgnoreException disables collection of raised exceptions.
	IgnoreException bool
	// IgnoreYield disables collection of yielded expressions.
	IgnoreYield bool
	// Strict turns syntax errors in the tree into a CodeSyntax failure.
	Strict bool
}

// DefaultMethodOmissions is the receiver name dropped from methods.
var DefaultMethodOmissions = []string{"self"}
