package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node during a walk.
// Returns true if the walker should not descend into the node's children.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries the source buffer and node helpers shared by
// the walkers.
type ExtractionContext struct {
	Source []byte
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}

	if !stop {
		for i := uint(0); i < node.ChildCount(); i++ {
			e.Walk(ctx, node.Child(i))
		}
	}
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

func (c *ExtractionContext) Position(point sitter.Point) Position {
	return Position{
		Line:   int(point.Row) + 1,
		Column: int(point.Column),
	}
}

// ChildOfKind returns the first direct child with the given kind.
func (c *ExtractionContext) ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FirstNamedChild skips comments, which tree-sitter reports as named extras.
func (c *ExtractionContext) FirstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

// LeadingToken returns the text of the first leaf under node. String
// literals are treated as a single token.
func (c *ExtractionContext) LeadingToken(node *sitter.Node) string {
	for node != nil && node.ChildCount() > 0 {
		switch node.Kind() {
		case "string", "concatenated_string":
			return c.Text(node)
		}
		node = node.Child(0)
	}
	return c.Text(node)
}

// firstError finds the first ERROR or MISSING node in document order.
func firstError(node *sitter.Node) *sitter.Node {
	if node == nil || !node.HasError() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}
