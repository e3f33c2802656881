// Package app wires configuration, extraction, docstring generation and
// output into runs over files, directories and stdin.
package app

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"doq/internal/core/config"
	"doq/internal/core/errors"
	"doq/internal/core/ports"
	"doq/internal/engine/docstring"
	"doq/internal/engine/parser"
	"doq/internal/engine/template"
	"doq/internal/output"
	"doq/internal/shared/logging"

	"go.uber.org/zap"
)

var _ ports.DocstringService = (*App)(nil)

// StdinPath names the target read from standard input.
const StdinPath = "<stdin>"

type Options struct {
	// Input is a file path, "-" or "" for stdin. Ignored for recursive runs.
	Input  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Parser defaults to the pooled tree-sitter parser.
	Parser ports.CodeParser
	// Reload is used by Watch to re-read Config.Source when it changes,
	// so the same flags keep winning over the file.
	Reload config.LoadOptions
}

type App struct {
	Config *config.Config
	RunID  string

	input  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	parser ports.CodeParser
	reload config.LoadOptions
	pipe   atomic.Pointer[pipeline]
	log    *zap.SugaredLogger
}

// pipeline is everything derived from the docstring-shaping settings.
// Watch mode swaps it when the config file changes.
type pipeline struct {
	parserOpts parser.Options
	templates  *template.Renderer
	generator  *docstring.Generator
	renderer   output.Renderer
	indent     int
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	templates, err := template.New(cfg.Formatter, cfg.TemplatePath)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "load_templates")
	}

	renderer, err := output.NewRenderer(cfg.Style)
	if err != nil {
		return nil, err
	}

	generator := docstring.NewGenerator(templates, docstring.Options{
		IgnoreException: cfg.IgnoreException,
		IgnoreYield:     cfg.IgnoreYield,
		IgnoreInit:      cfg.IgnoreInit,
	})
	parserOpts := generator.ParserOptions(cfg.Omit)
	parserOpts.Strict = cfg.Strict

	return &pipeline{
		parserOpts: parserOpts,
		templates:  templates,
		generator:  generator,
		renderer:   renderer,
		indent:     cfg.Indent,
	}, nil
}

// New loads the template bundle and output renderer for cfg. A missing
// template directory is a CodeNotFound error.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}

	pipe, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		RunID:  uuid.NewString(),
		input:  opts.Input,
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		parser: opts.Parser,
		reload: opts.Reload,
	}
	a.pipe.Store(pipe)
	if a.parser == nil {
		a.parser = parser.NewParser()
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	a.log = logging.With("run_id", a.RunID)

	a.log.Debugw("app ready",
		"templates", pipe.templates.Source(),
		"style", cfg.Style,
		"collect_exceptions", pipe.generator.CollectExceptions(),
		"collect_yields", pipe.generator.CollectYields(),
	)
	return a, nil
}

// Reload swaps in the templates, output style and extraction options of
// cfg. Paths, jobs and mode flags keep their original values. On error
// the previous settings stay active.
func (a *App) Reload(cfg *config.Config) error {
	pipe, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	a.pipe.Store(pipe)
	a.log.Infow("settings reloaded", "templates", pipe.templates.Source(), "source", cfg.Source)
	return nil
}

// Stderr is where summaries and diagnostics for humans go.
func (a *App) Stderr() io.Writer { return a.stderr }
