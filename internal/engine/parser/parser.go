package parser

import (
	"doq/internal/core/errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Parser turns Python source into definition records.
type Parser struct {
	pool *ParserPool
}

func NewParser() *Parser {
	return &Parser{pool: NewParserPool(PythonLanguage())}
}

var (
	defaultParser     *Parser
	defaultParserOnce sync.Once
)

// Parse parses source with a process-wide pooled parser.
func Parse(source []byte, opts Options) ([]Definition, error) {
	defaultParserOnce.Do(func() {
		defaultParser = NewParser()
	})
	return defaultParser.Parse(source, opts)
}

// Parse extracts every function and class definition in source, nested
// definitions included, ordered by position.
func (p *Parser) Parse(source []byte, opts Options) ([]Definition, error) {
	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if opts.Strict && root.HasError() {
		err := &errors.DomainError{Code: errors.CodeSyntax, Message: "invalid python source"}
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			err.WithContext(errors.CtxLine, int(pos.Row)+1)
			err.Message = fmt.Sprintf("invalid python source near line %d, column %d", pos.Row+1, pos.Column)
		}
		return nil, err
	}

	if opts.MethodOmissions == nil {
		opts.MethodOmissions = DefaultMethodOmissions
	}

	extractor := &pythonExtractor{
		ctx:  &ExtractionContext{Source: source},
		opts: opts,
	}
	return extractor.definitions(root, opts.Omissions), nil
}

// IsSupportedPath reports whether path names a Python source file.
func IsSupportedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}
