package ports

import (
	"context"

	"doq/internal/engine/parser"
	"doq/internal/ui/report"
)

// CodeParser abstracts extraction of definition records from source.
type CodeParser interface {
	Parse(source []byte, opts parser.Options) ([]parser.Definition, error)
}

// DocstringService is the operation set driving adapters such as the CLI
// call into.
type DocstringService interface {
	// Run documents the configured targets once.
	Run(ctx context.Context) (report.Summary, error)
	// Watch documents files as they change until ctx is cancelled.
	Watch(ctx context.Context) error
}
