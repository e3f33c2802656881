// # internal/engine/parser/python.go
package parser

import (
	"slices"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	// asyncPrefixWidth is len("async "). Definitions report the column of
	// the statement, not of the def keyword.
	asyncPrefixWidth  = 6
	classMethodMarker = "classmethod"
)

type pythonExtractor struct {
	ctx  *ExtractionContext
	opts Options
}

// definitions collects the definitions declared directly in scope. Classes
// come first, then functions; the combined slice is stably ordered by
// sortKey.
func (e *pythonExtractor) definitions(scope *sitter.Node, omissions []string) []Definition {
	var classes, funcs []Definition
	for _, node := range e.scopeDefinitions(scope) {
		switch node.Kind() {
		case "class_definition":
			classes = append(classes, e.class(node))
		case "function_definition":
			funcs = append(funcs, e.function(node, omissions))
		}
	}
	sortDefinitions(classes)

	out := make([]Definition, 0, len(classes)+len(funcs))
	out = append(out, classes...)
	out = append(out, funcs...)
	sortDefinitions(out)
	return out
}

func sortDefinitions(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].sortKey() < defs[j].sortKey()
	})
}

// scopeDefinitions finds function and class nodes belonging to scope. It
// looks through compound statements such as if/try/with but not into other
// definitions.
func (e *pythonExtractor) scopeDefinitions(scope *sitter.Node) []*sitter.Node {
	var found []*sitter.Node
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "function_definition", "class_definition":
				found = append(found, child)
			case "decorated_definition":
				if def := child.ChildByFieldName("definition"); def != nil {
					found = append(found, def)
				}
			case "lambda", "comment":
			default:
				visit(child)
			}
		}
	}
	if scope != nil {
		visit(scope)
	}
	return found
}

func (e *pythonExtractor) class(node *sitter.Node) Definition {
	body := node.ChildByFieldName("body")
	methodOmissions := append(slices.Clone(e.opts.MethodOmissions), e.opts.Omissions...)

	return Definition{
		Kind:         KindClass,
		Name:         e.ctx.Text(node.ChildByFieldName("name")),
		Start:        e.ctx.Position(node.StartPosition()),
		End:          e.ctx.Position(node.EndPosition()),
		HasDocstring: e.hasDocstring(body),
		Decorators:   e.decorators(node),
		Children:     e.definitions(body, methodOmissions),
	}
}

func (e *pythonExtractor) function(node *sitter.Node, omissions []string) Definition {
	body := node.ChildByFieldName("body")
	decorators := e.decorators(node)

	def := Definition{
		Kind:         KindFunction,
		Name:         e.ctx.Text(node.ChildByFieldName("name")),
		Start:        Position{Line: int(node.StartPosition().Row) + 1, Column: e.startColumn(node)},
		End:          e.ctx.Position(node.EndPosition()),
		HasDocstring: e.hasDocstring(body),
		IsAsync:      e.ctx.ChildOfKind(node, "async") != nil,
		Decorators:   decorators,
		Params:       e.parameters(node.ChildByFieldName("parameters"), omissions, isClassMethod(decorators)),
		ReturnType:   e.returnType(node, body),
	}
	def.Exceptions, def.Yields = e.bodyEffects(body)
	// Nested functions never drop a receiver.
	def.Children = e.definitions(body, nil)
	return def
}

func (e *pythonExtractor) startColumn(node *sitter.Node) int {
	keyword := e.ctx.ChildOfKind(node, "def")
	if keyword == nil {
		return int(node.StartPosition().Column)
	}
	col := int(keyword.StartPosition().Column)
	if e.ctx.ChildOfKind(node, "async") != nil {
		col -= asyncPrefixWidth
	}
	if col < 0 {
		col = 0
	}
	return col
}

func isClassMethod(decorators []string) bool {
	for _, dec := range decorators {
		if strings.HasPrefix(dec, classMethodMarker) {
			return true
		}
	}
	return false
}

func (e *pythonExtractor) decorators(node *sitter.Node) []string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}

	decorators := make([]string, 0, parent.ChildCount())
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		dec := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(e.ctx.Text(child)), "@"))
		if dec == "" {
			continue
		}
		decorators = append(decorators, dec)
	}
	return decorators
}

// hasDocstring reports whether the first statement of body is a bare
// string literal.
func (e *pythonExtractor) hasDocstring(body *sitter.Node) bool {
	first := e.ctx.FirstNamedChild(body)
	if first == nil || first.Kind() != "expression_statement" {
		return false
	}
	expr := e.ctx.FirstNamedChild(first)
	if expr == nil || first.NamedChildCount() != 1 {
		return false
	}
	switch expr.Kind() {
	case "string", "concatenated_string":
		return true
	}
	return false
}

// parameters returns declared parameters in order. Only the positionally
// first parameter can be omitted: always for classmethods, otherwise when
// its name is in omissions.
func (e *pythonExtractor) parameters(params *sitter.Node, omissions []string, classMethod bool) []Parameter {
	if params == nil {
		return nil
	}

	var out []Parameter
	index := 0
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param, ok := e.parameter(params.NamedChild(i))
		if !ok {
			continue
		}
		first := index == 0
		index++

		if first && classMethod {
			continue
		}
		if first && slices.Contains(omissions, param.Argument) {
			continue
		}
		out = append(out, param)
	}
	return out
}

func (e *pythonExtractor) parameter(node *sitter.Node) (Parameter, bool) {
	var param Parameter
	switch node.Kind() {
	case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
		param.Argument = e.parameterName(node)
	case "typed_parameter":
		param.Argument = e.parameterName(e.ctx.FirstNamedChild(node))
		param.Annotation = strings.TrimSpace(e.ctx.Text(node.ChildByFieldName("type")))
	case "default_parameter":
		param.Argument = e.parameterName(node.ChildByFieldName("name"))
		param.Default = strings.TrimSpace(e.ctx.Text(node.ChildByFieldName("value")))
	case "typed_default_parameter":
		param.Argument = e.parameterName(node.ChildByFieldName("name"))
		param.Annotation = strings.TrimSpace(e.ctx.Text(node.ChildByFieldName("type")))
		param.Default = strings.TrimSpace(e.ctx.Text(node.ChildByFieldName("value")))
	default:
		// keyword_separator, positional_separator, comments
		return Parameter{}, false
	}
	return param, param.Argument != ""
}

// parameterName unwraps *args / **kwargs to the bare identifier.
func (e *pythonExtractor) parameterName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "list_splat_pattern", "dictionary_splat_pattern":
		return e.parameterName(e.ctx.FirstNamedChild(node))
	}
	return strings.TrimSpace(e.ctx.Text(node))
}

// returnType reads the return annotation from the tree and falls back to a
// textual scan of the signature when the tree has no return_type node.
func (e *pythonExtractor) returnType(node, body *sitter.Node) string {
	if rt := node.ChildByFieldName("return_type"); rt != nil {
		return strings.TrimSpace(e.ctx.Text(rt))
	}

	end := node.EndByte()
	endLine := int(node.EndPosition().Row) + 1
	if body != nil {
		end = body.StartByte()
		endLine = int(body.StartPosition().Row) + 1
	}
	signature := string(e.ctx.Source[node.StartByte():end])
	if !strings.Contains(signature, "->") {
		return ""
	}
	startLine := int(node.StartPosition().Row) + 1
	if rt, ok := ParseReturnType(signature, startLine, endLine); ok {
		return rt
	}
	return ""
}

// bodyEffects collects raised and yielded leading tokens inside body,
// stopping at nested scopes. A disabled toggle skips its collection.
func (e *pythonExtractor) bodyEffects(body *sitter.Node) (exceptions, yields []string) {
	if body == nil || (e.opts.IgnoreException && e.opts.IgnoreYield) {
		return nil, nil
	}

	stop := func(*ExtractionContext, *sitter.Node) bool { return true }
	handlers := map[string]NodeHandler{
		"function_definition": stop,
		"class_definition":    stop,
		"lambda":              stop,
	}
	if !e.opts.IgnoreException {
		handlers["raise_statement"] = func(ctx *ExtractionContext, node *sitter.Node) bool {
			if target := ctx.FirstNamedChild(node); target != nil {
				exceptions = append(exceptions, strings.TrimSpace(ctx.LeadingToken(target)))
			}
			return false
		}
	}
	if !e.opts.IgnoreYield {
		handlers["yield"] = func(ctx *ExtractionContext, node *sitter.Node) bool {
			if !node.IsNamed() {
				// the keyword token shares the kind name
				return true
			}
			if value := ctx.FirstNamedChild(node); value != nil {
				yields = append(yields, strings.TrimSpace(ctx.LeadingToken(value)))
			}
			return false
		}
	}

	engine := NewExtractorEngine(handlers)
	for i := uint(0); i < body.ChildCount(); i++ {
		engine.Walk(e.ctx, body.Child(i))
	}
	return exceptions, yields
}
