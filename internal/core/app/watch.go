// # internal/core/app/watch.go
package app

import (
	"context"
	"path/filepath"

	"doq/internal/core/config"
	"doq/internal/core/watcher"
	"doq/internal/output"
	"doq/internal/shared/observability"
	"doq/internal/shared/util"
)

// Watch rewrites Python files under the configured directory (or the
// working directory) as they change, until ctx is cancelled. Rewrites are
// throttled to Config.Watch.MaxRewritesPerSecond and always use the
// whole file. Edits to the config file the run was loaded from take effect
// without a restart.
func (a *App) Watch(ctx context.Context) error {
	root := a.Config.Directory
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	if addr := a.Config.Observability.MetricsAddr; addr != "" {
		if _, err := observability.ServeMetrics(ctx, addr); err != nil {
			return err
		}
	}

	if a.Config.Source != "" {
		cw := config.NewWatcher(a.Config.Source, a.reload, func(cfg *config.Config) {
			if err := a.Reload(cfg); err != nil {
				a.log.Warnw("keeping previous settings", "error", err)
			}
		})
		if err := cw.Start(ctx); err != nil {
			return err
		}
		defer cw.Stop()
	}

	limiter := util.NewLimiter(a.Config.Watch.MaxRewritesPerSecond, 1)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) { a.HandleChanges(ctx, limiter, paths) },
	)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch([]string{root}); err != nil {
		return err
	}
	a.log.Infow("watching for changes", "root", root, "debounce", a.Config.Watch.Debounce)

	<-ctx.Done()
	return nil
}

// HandleChanges documents each changed file in place.
func (a *App) HandleChanges(ctx context.Context, limiter *util.Limiter, paths []string) {
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		delayed, err := limiter.Wait(ctx)
		if err != nil {
			return
		}
		if delayed {
			observability.RewritesThrottledTotal.Inc()
		}

		if err := a.rewrite(ctx, path); err != nil {
			observability.FilesProcessedTotal.WithLabelValues(observability.ResultFailed).Inc()
			a.log.Warnw("failed to document file", "path", path, "error", err)
		}
	}
}

func (a *App) rewrite(ctx context.Context, path string) error {
	t, err := a.LoadTarget(path)
	if err != nil {
		return err
	}
	t.Lo, t.Hi = 0, len(t.Lines)

	res, err := a.process(ctx, t, output.TextRenderer{})
	if err != nil {
		return err
	}
	if res.Docstrings == 0 {
		observability.FilesProcessedTotal.WithLabelValues(observability.ResultUnchanged).Inc()
		return nil
	}

	if err := util.WriteFileAtomic(path, []byte(res.Output+"\n")); err != nil {
		return err
	}
	observability.FilesProcessedTotal.WithLabelValues(observability.ResultChanged).Inc()
	a.log.Infow("documented file", "path", path, "docstrings", res.Docstrings)
	return nil
}
