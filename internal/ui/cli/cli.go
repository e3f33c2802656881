// # internal/ui/cli/cli.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"doq/internal/core/config"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.10.0"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// flagKeys maps flag names that differ from their config keys.
var flagKeys = map[string]string{
	"exclude":       config.KeyExcludeFiles,
	"exclude-dir":   config.KeyExcludeDirs,
	"log-format":    config.KeyLogFormat,
	"metrics-addr":  config.KeyMetricsAddr,
	"otlp-endpoint": config.KeyOTLPEndpoint,
	"debounce":      config.KeyWatchDebounce,
	"max-rewrites":  config.KeyWatchRate,
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes doq with the process streams and returns its exit code.
func Run(args []string) int {
	return RunWith(args, os.Stdin, os.Stdout, os.Stderr)
}

func RunWith(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(streams{in: stdin, out: stdout, err: stderr})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "doq:", err)
		var usage usageError
		if errors.As(err, &usage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func newRootCommand(s streams) *cobra.Command {
	root := &cobra.Command{
		Use:           "doq",
		Short:         "Docstring generator for Python source",
		Long:          "doq finds Python functions and classes without docstrings and generates them from sphinx, google or numpy templates.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, s)
		},
	}
	root.SetVersionTemplate("doq {{ .Version }}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a setup.cfg or pyproject.toml (default: discovered)")
	pf.StringP("template_path", "t", "", "Path to template directory")
	pf.String("formatter", "sphinx", "Docstring formatter: sphinx, google or numpy")
	pf.Int("indent", 4, "Indent number")
	pf.StringSlice("omit", nil, "Omit first argument such as self")
	pf.Bool("ignore_exception", false, "Ignore exception statements")
	pf.Bool("ignore_yield", false, "Ignore yield statements")
	pf.Bool("ignore_init", false, "Ignore generating docstrings for __init__ methods")
	pf.StringP("directory", "d", "", "Directory to process")
	pf.StringSlice("exclude", nil, "File name globs to skip")
	pf.StringSlice("exclude-dir", nil, "Directory name globs to skip")
	pf.Bool("strict", false, "Fail on Python syntax errors")
	pf.String("log-format", "console", "Log format: console or json")
	pf.Bool("verbose", false, "Enable debug logging and print a run summary")
	pf.String("otlp-endpoint", "", "OTLP/gRPC endpoint for traces")

	f := root.Flags()
	f.StringP("file", "f", "-", "File or STDIN")
	f.Int("start", 1, "Start lineno")
	f.Int("end", 0, "End lineno")
	f.StringP("style", "s", "string", "Output style: string, json or yaml")
	f.BoolP("recursive", "r", false, "Run recursively over directories")
	f.BoolP("write", "w", false, "Edit files in-place")
	f.Int("jobs", 1, "Files processed in parallel")
	f.Bool("diff", false, "Print a unified diff instead of the result")
	f.String("print-completion", "", "Print shell completion script: bash, zsh, fish or powershell")

	root.AddCommand(newWatchCommand(s), newVersionCommand(s))
	return root
}

func newVersionCommand(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(s.out, "doq %s\n", Version)
		},
	}
}

func newWatchCommand(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Add docstrings to Python files as they change",
		Long:  "watch rewrites changed Python files under --directory (default: the working directory) in place until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, s)
		},
	}
	f := cmd.Flags()
	f.Duration("debounce", 0, "Quiet period before changed files are processed (default 300ms)")
	f.Float64("max-rewrites", 0, "Maximum file rewrites per second (default 10)")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

func printCompletion(root *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return usageError{err: fmt.Errorf("unsupported shell %q: use bash, zsh, fish or powershell", shell)}
}
