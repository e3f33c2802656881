package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: DOQ_[SECTION_]KEY, for
// example DOQ_IGNORE_INIT or DOQ_WATCH_DEBOUNCE.
const EnvPrefix = "DOQ"

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// bindFlags binds every flag that names a config key, directly or through
// keys. Viper only prefers a bound flag over file and environment values
// when the flag was set on the command line.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	known := make(map[string]bool)
	for _, key := range v.AllKeys() {
		known[key] = true
	}

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key, ok := keys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if !known[key] {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}
