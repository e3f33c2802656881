package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"doq/internal/shared/observability"
	"doq/internal/ui/report"
)

// Run processes every target with up to Config.Jobs files in flight and
// emits results in target order. A failing file aborts single-file runs;
// directory runs log it and carry on.
func (a *App) Run(ctx context.Context) (report.Summary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes(
		attribute.String("doq.run_id", a.RunID),
		attribute.Bool("doq.recursive", a.Config.Recursive),
	))
	defer span.End()

	started := time.Now()
	summary := report.Summary{RunID: a.RunID}
	defer func() {
		summary.Duration = time.Since(started)
		observability.RunDuration.Observe(summary.Duration.Seconds())
	}()

	targets, err := a.Targets()
	if err != nil {
		return summary, err
	}
	summary.Files = len(targets)
	a.log.Debugw("resolved targets", "count", len(targets))

	results := make([]FileResult, len(targets))
	errs := make([]error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Jobs, 1))
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = a.ProcessTarget(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	for i, t := range targets {
		err := errs[i]
		if err == nil {
			err = a.emit(t, results[i])
		}
		if err != nil {
			summary.Failed++
			observability.FilesProcessedTotal.WithLabelValues(observability.ResultFailed).Inc()
			if !a.Config.Recursive {
				return summary, err
			}
			a.log.Warnw("failed to process file", "path", t.Path, "error", err)
			continue
		}

		if results[i].Docstrings == 0 {
			summary.Unchanged++
			observability.FilesProcessedTotal.WithLabelValues(observability.ResultUnchanged).Inc()
			continue
		}
		summary.Changed++
		summary.Docstrings += results[i].Docstrings
		observability.FilesProcessedTotal.WithLabelValues(observability.ResultChanged).Inc()
	}

	span.SetAttributes(
		attribute.Int("doq.files", summary.Files),
		attribute.Int("doq.docstrings", summary.Docstrings),
	)
	return summary, nil
}
