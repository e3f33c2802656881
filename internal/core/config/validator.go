package config

import (
	"fmt"
	"slices"

	"github.com/gobwas/glob"
)

var (
	formatters = []string{"sphinx", "google", "numpy"}
	styles     = []string{"string", "json", "yaml"}
	logFormats = []string{"console", "json"}
)

// Validate returns every problem found, not just the first.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.TemplatePath == "" && !slices.Contains(formatters, cfg.Formatter) {
		errs = append(errs, fmt.Errorf("formatter must be one of: sphinx, google, numpy, got %q", cfg.Formatter))
	}
	if !slices.Contains(styles, cfg.Style) {
		errs = append(errs, fmt.Errorf("style must be one of: string, json, yaml, got %q", cfg.Style))
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format must be one of: console, json, got %q", cfg.LogFormat))
	}
	if cfg.Indent < 0 {
		errs = append(errs, fmt.Errorf("indent must be >= 0, got %d", cfg.Indent))
	}
	if cfg.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be >= 1, got %d", cfg.Jobs))
	}
	if cfg.Start < 1 {
		errs = append(errs, fmt.Errorf("start must be >= 1, got %d", cfg.Start))
	}
	if cfg.End < 0 {
		errs = append(errs, fmt.Errorf("end must be >= 0, got %d", cfg.End))
	}
	if cfg.End > 0 && cfg.End < cfg.Start {
		errs = append(errs, fmt.Errorf("end %d is before start %d", cfg.End, cfg.Start))
	}
	if cfg.Recursive && cfg.Directory == "" {
		errs = append(errs, fmt.Errorf("directory is required when recursive is set"))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative"))
	}
	if cfg.Watch.MaxRewritesPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("watch.max_rewrites_per_second must be > 0"))
	}

	for i, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("exclude.dirs[%d] %q is not a valid glob: %v", i, pattern, err))
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("exclude.files[%d] %q is not a valid glob: %v", i, pattern, err))
		}
	}

	return errs
}
