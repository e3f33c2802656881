// # internal/core/config/loader.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"doq/internal/core/errors"
	"doq/internal/shared/logging"
)

const (
	SetupCfg  = "setup.cfg"
	Pyproject = "pyproject.toml"

	section = "doq"
)

// ProjectConfigs are the file names searched, in order, in each directory.
var ProjectConfigs = []string{SetupCfg, Pyproject}

type LoadOptions struct {
	// ConfigPath skips discovery when set.
	ConfigPath string
	// Cwd is where discovery starts. Defaults to the process directory.
	Cwd string
	// Flags are bound so explicitly set flags win over every other source.
	Flags *pflag.FlagSet
	// FlagKeys maps flag names to config keys when they differ.
	FlagKeys map[string]string
}

// Load layers defaults, the first project config carrying a doq section,
// DOQ_* environment variables and explicitly set flags, lowest first.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	bindEnv(v)

	source, err := mergeProjectConfig(v, opts)
	if err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags, opts.FlagKeys); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "bind flags")
		}
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, "decode configuration"),
			errors.CtxPath, source,
		)
	}
	cfg.Source = source

	if errs := Validate(cfg); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, strings.Join(msgs, "; ")),
			errors.CtxPath, source,
		)
	}
	return cfg, nil
}

func mergeProjectConfig(v *viper.Viper, opts LoadOptions) (string, error) {
	var candidates []string
	if opts.ConfigPath != "" {
		path, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "resolve config path")
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.AddContext(
				errors.New(errors.CodeNotFound, "config file not found"),
				errors.CtxPath, path,
			)
		}
		candidates = []string{path}
	} else {
		cwd := opts.Cwd
		if cwd == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, errors.CodeInternal, "get working directory")
			}
			cwd = wd
		}
		candidates = Discover(cwd)
	}

	for _, path := range candidates {
		values, ok, err := readProjectConfig(path)
		if err != nil {
			logging.L().Debugw("ignoring unreadable config", "path", path, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := v.MergeConfigMap(values); err != nil {
			return "", errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "merge config"),
				errors.CtxPath, path,
			)
		}
		logging.L().Debugw("loaded config", "path", path, "keys", len(values))
		return path, nil
	}
	return "", nil
}

// Discover lists existing project config files in cwd and then its parent.
func Discover(cwd string) []string {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		abs = filepath.Clean(cwd)
	}

	dirs := []string{abs}
	if parent := filepath.Dir(abs); parent != abs {
		dirs = append(dirs, parent)
	}

	var found []string
	for _, dir := range dirs {
		for _, name := range ProjectConfigs {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				found = append(found, path)
			}
		}
	}
	return found
}

func readProjectConfig(path string) (map[string]interface{}, bool, error) {
	switch strings.ToLower(filepath.Base(path)) {
	case Pyproject:
		return readPyproject(path)
	case SetupCfg:
		return readSetupCfg(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return readPyproject(path)
	default:
		return readSetupCfg(path)
	}
}

// readSetupCfg returns the [doq] section of an INI file.
func readSetupCfg(path string) (map[string]interface{}, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	ini := viper.New()
	ini.SetConfigType("ini")
	if err := ini.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, false, err
	}

	values := make(map[string]interface{})
	prefix := section + "."
	for _, key := range ini.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		raw := strings.TrimSpace(ini.GetString(key))
		if boolKeys[name] {
			b, ok := parseINIBool(raw)
			if !ok {
				logging.L().Debugw("ignoring non-boolean config value", "path", path, "key", name, "value", raw)
				continue
			}
			values[name] = b
			continue
		}
		setNested(values, name, raw)
	}
	return values, len(values) > 0, nil
}

// readPyproject returns the [tool.doq] table of a TOML file.
func readPyproject(path string) (map[string]interface{}, bool, error) {
	var doc struct {
		Tool struct {
			Doq map[string]interface{} `toml:"doq"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, false, err
	}
	if doc.Tool.Doq == nil {
		return nil, false, nil
	}
	return doc.Tool.Doq, true, nil
}

// setNested stores dotted INI keys such as "exclude.dirs" as nested maps.
func setNested(m map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			m[part] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}

func parseINIBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "1", "yes", "true", "on":
		return true, true
	case "0", "no", "false", "off":
		return false, true
	}
	return false, false
}

func normalize(cfg *Config) {
	cfg.Formatter = strings.ToLower(strings.TrimSpace(cfg.Formatter))
	cfg.Style = strings.ToLower(strings.TrimSpace(cfg.Style))
	cfg.TemplatePath = strings.TrimSpace(cfg.TemplatePath)
	cfg.Directory = strings.TrimSpace(cfg.Directory)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.Omit = cleanList(cfg.Omit)
	cfg.Exclude.Dirs = cleanList(cfg.Exclude.Dirs)
	cfg.Exclude.Files = cleanList(cfg.Exclude.Files)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
