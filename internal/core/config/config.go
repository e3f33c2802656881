package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Formatter       string   `mapstructure:"formatter"`
	Style           string   `mapstructure:"style"`
	TemplatePath    string   `mapstructure:"template_path"`
	Indent          int      `mapstructure:"indent"`
	Omit            []string `mapstructure:"omit"`
	IgnoreException bool     `mapstructure:"ignore_exception"`
	IgnoreYield     bool     `mapstructure:"ignore_yield"`
	IgnoreInit      bool     `mapstructure:"ignore_init"`

	Recursive bool    `mapstructure:"recursive"`
	Directory string  `mapstructure:"directory"`
	Write     bool    `mapstructure:"write"`
	Start     int     `mapstructure:"start"`
	End       int     `mapstructure:"end"`
	Exclude   Exclude `mapstructure:"exclude"`
	Jobs      int     `mapstructure:"jobs"`
	Diff      bool    `mapstructure:"diff"`
	Strict    bool    `mapstructure:"strict"`

	LogFormat     string        `mapstructure:"log_format"`
	Verbose       bool          `mapstructure:"verbose"`
	Observability Observability `mapstructure:"observability"`
	Watch         Watch         `mapstructure:"watch"`

	// Source is the config file the values came from, empty when none.
	Source string `mapstructure:"-"`
}

type Exclude struct {
	Dirs  []string `mapstructure:"dirs"`
	Files []string `mapstructure:"files"`
}

type Observability struct {
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

type Watch struct {
	Debounce             time.Duration `mapstructure:"debounce"`
	MaxRewritesPerSecond float64       `mapstructure:"max_rewrites_per_second"`
}

// Keys shared by config files, DOQ_* variables and flags.
const (
	KeyFormatter       = "formatter"
	KeyStyle           = "style"
	KeyTemplatePath    = "template_path"
	KeyIndent          = "indent"
	KeyOmit            = "omit"
	KeyIgnoreException = "ignore_exception"
	KeyIgnoreYield     = "ignore_yield"
	KeyIgnoreInit      = "ignore_init"
	KeyRecursive       = "recursive"
	KeyDirectory       = "directory"
	KeyWrite           = "write"
	KeyStart           = "start"
	KeyEnd             = "end"
	KeyExcludeDirs     = "exclude.dirs"
	KeyExcludeFiles    = "exclude.files"
	KeyJobs            = "jobs"
	KeyDiff            = "diff"
	KeyStrict          = "strict"
	KeyLogFormat       = "log_format"
	KeyVerbose         = "verbose"
	KeyMetricsAddr     = "observability.metrics_addr"
	KeyOTLPEndpoint    = "observability.otlp_endpoint"
	KeyServiceName     = "observability.service_name"
	KeyWatchDebounce   = "watch.debounce"
	KeyWatchRate       = "watch.max_rewrites_per_second"
)

// boolKeys are parsed with INI truth words in setup.cfg.
var boolKeys = map[string]bool{
	KeyIgnoreException: true,
	KeyIgnoreYield:     true,
	KeyIgnoreInit:      true,
	KeyRecursive:       true,
	KeyWrite:           true,
	KeyDiff:            true,
	KeyStrict:          true,
	KeyVerbose:         true,
}

// SetDefaults registers every key so environment lookups and Unmarshal
// see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormatter, "sphinx")
	v.SetDefault(KeyStyle, "string")
	v.SetDefault(KeyTemplatePath, "")
	v.SetDefault(KeyIndent, 4)
	v.SetDefault(KeyOmit, []string{})
	v.SetDefault(KeyIgnoreException, false)
	v.SetDefault(KeyIgnoreYield, false)
	v.SetDefault(KeyIgnoreInit, false)
	v.SetDefault(KeyRecursive, false)
	v.SetDefault(KeyDirectory, "")
	v.SetDefault(KeyWrite, false)
	v.SetDefault(KeyStart, 1)
	v.SetDefault(KeyEnd, 0)
	v.SetDefault(KeyExcludeDirs, []string{})
	v.SetDefault(KeyExcludeFiles, []string{})
	v.SetDefault(KeyJobs, 1)
	v.SetDefault(KeyDiff, false)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyOTLPEndpoint, "")
	v.SetDefault(KeyServiceName, "doq")
	v.SetDefault(KeyWatchDebounce, 300*time.Millisecond)
	v.SetDefault(KeyWatchRate, 10.0)
}

// Default returns the configuration used when no file, variable or flag
// overrides anything.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		// defaults are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}
