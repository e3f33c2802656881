package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"doq/internal/core/errors"
	"doq/internal/output"
	"doq/internal/shared/observability"
	"doq/internal/shared/util"
	"doq/internal/ui/report"
)

// FileResult is the outcome of documenting one target.
type FileResult struct {
	Path       string
	Docstrings int
	// Output is the renderer's result for the processed slice, empty when
	// nothing needed a docstring.
	Output string
}

// ProcessTarget documents the target's line range. The range is dedented
// before parsing so a method body can be processed on its own; placements
// are shifted back to the file's columns.
func (a *App) ProcessTarget(ctx context.Context, t Target) (FileResult, error) {
	return a.process(ctx, t, nil)
}

// process renders with the configured style unless renderer is set.
func (a *App) process(ctx context.Context, t Target, renderer output.Renderer) (FileResult, error) {
	pipe := a.pipe.Load()
	if renderer == nil {
		renderer = pipe.renderer
	}

	_, span := observability.Tracer.Start(ctx, "app.ProcessTarget", trace.WithAttributes(
		attribute.String("doq.path", t.Path),
		attribute.Int("doq.lines", t.Hi-t.Lo),
	))
	defer span.End()

	res := FileResult{Path: t.Path}
	lines := t.Slice()
	if len(lines) == 0 {
		return res, nil
	}

	code, shift := util.Dedent(lines)

	started := time.Now()
	defs, err := a.parser.Parse([]byte(strings.Join(code, "\n")), pipe.parserOpts)
	observability.ParsingDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return res, a.fail(span, err, t.Path)
	}

	placements, err := pipe.generator.Generate(defs)
	if err != nil {
		return res, a.fail(span, err, t.Path)
	}
	if len(placements) == 0 {
		return res, nil
	}

	for i := range placements {
		placements[i].StartColumn += shift
		placements[i].EndColumn += shift
		observability.PlacementsTotal.WithLabelValues(placements[i].Template).Inc()
	}

	out, err := renderer.Render(lines, placements, pipe.indent)
	if err != nil {
		return res, a.fail(span, err, t.Path)
	}

	res.Docstrings = len(placements)
	res.Output = out
	span.SetAttributes(attribute.Int("doq.docstrings", res.Docstrings))
	return res, nil
}

func (a *App) fail(span trace.Span, err error, path string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return errors.AddContext(err, errors.CtxPath, path)
}

// emit delivers a result: a diff preview, an in-place rewrite or stdout.
// Structured styles never rewrite files.
func (a *App) emit(t Target, res FileResult) error {
	if res.Output == "" {
		return nil
	}

	textual := a.Config.Style == output.StyleString || a.Config.Style == ""
	if !textual {
		if a.Config.Write || a.Config.Diff {
			a.log.Debugw("structured output is printed, not written", "path", t.Path, "style", a.Config.Style)
		}
		_, err := fmt.Fprintln(a.stdout, res.Output)
		return err
	}

	updated := t.Splice(strings.Split(res.Output, "\n"))

	if a.Config.Diff {
		diff, err := report.UnifiedDiff(t.Path, t.Lines, updated)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "build diff")
		}
		if _, err := fmt.Fprint(a.stdout, report.Colorize(diff)); err != nil {
			return err
		}
		if !a.Config.Write {
			return nil
		}
	}

	if a.Config.Write && !t.IsStdin() {
		if err := util.WriteFileAtomic(t.Path, []byte(strings.Join(updated, "\n")+"\n")); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write file"), errors.CtxPath, t.Path)
		}
		a.log.Debugw("rewrote file", "path", t.Path, "docstrings", res.Docstrings)
		return nil
	}

	if a.Config.Diff {
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, res.Output)
	return err
}
