package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doq/internal/core/app"
	"doq/internal/core/config"
	"doq/internal/core/ports"
	"doq/internal/shared/logging"
	"doq/internal/shared/observability"
	"doq/internal/ui/report"
)

// loadConfig layers project config, DOQ_* variables and the flags that
// were set on this command line.
func loadConfig(cmd *cobra.Command) (*config.Config, config.LoadOptions, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, config.LoadOptions{}, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, config.LoadOptions{}, err
	}

	opts := config.LoadOptions{
		ConfigPath: configPath,
		Cwd:        cwd,
		Flags:      cmd.Flags(),
		FlagKeys:   flagKeys,
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, opts, err
	}

	logging.Configure(logging.Options{Format: cfg.LogFormat, Debug: cfg.Verbose})
	if cfg.Source != "" {
		logging.L().Debugw("using config", "path", cfg.Source)
	}
	return cfg, opts, nil
}

// newService builds the app and starts tracing for its run.
func newService(ctx context.Context, cfg *config.Config, reload config.LoadOptions, input string, s streams) (ports.DocstringService, func(), error) {
	a, err := app.New(cfg, app.Options{
		Input:  input,
		Stdin:  s.in,
		Stdout: s.out,
		Stderr: s.err,
		Reload: reload,
	})
	if err != nil {
		return nil, nil, err
	}

	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName, a.RunID)
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			logging.L().Warnw("failed to flush traces", "error", err)
		}
		_ = logging.Sync()
	}
	return a, cleanup, nil
}

func runGenerate(cmd *cobra.Command, s streams) error {
	if shell, _ := cmd.Flags().GetString("print-completion"); shell != "" {
		return printCompletion(cmd.Root(), shell, s.out)
	}

	cfg, opts, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	input, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(cmd.Context(), cfg, opts, input, s)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := svc.Run(cmd.Context())
	if cfg.Verbose {
		fmt.Fprint(s.err, report.RenderSummary(summary))
	}
	if err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
	}
	return nil
}

func runWatch(cmd *cobra.Command, s streams) error {
	cfg, opts, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, cleanup, err := newService(cmd.Context(), cfg, opts, "", s)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.Watch(cmd.Context())
}
