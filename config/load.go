package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ardanlabs/bindgen/generator"
)

// EnvPrefix prefixes environment overrides, e.g. BINDGEN_TARGET or
// BINDGEN_PREPROCESS_ENABLED.
const EnvPrefix = "BINDGEN"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"header":     "header",
	"output":     "output",
	"target":     "target",
	"namespace":  "namespace",
	"library":    "library",
	"class-name": "class_name",
	"symbols":    "symbols",
	"preprocess": "preprocess.enabled",
	"cpp":        "preprocess.command",
	"cpp-args":   "preprocess.args",
}

// SetDefaults registers every key with its default so environment
// variables can override any of them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("header", d.Header)
	v.SetDefault("output", d.Output)
	v.SetDefault("target", d.Target)
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("library", d.Library)
	v.SetDefault("class_name", d.ClassName)
	v.SetDefault("handle_type", d.HandleType)
	v.SetDefault("pointer_width_type", d.PointerWidthType)
	v.SetDefault("escape_prefix", d.EscapePrefix)
	v.SetDefault("anonymous_enum", d.AnonymousEnum)
	v.SetDefault("preprocess.enabled", d.Preprocess.Enabled)
	v.SetDefault("preprocess.command", d.Preprocess.Command)
	v.SetDefault("preprocess.args", d.Preprocess.Args)
	v.SetDefault("system_paths", d.SystemPaths)
	v.SetDefault("symbols", d.Symbols)
}

// Load builds the configuration. Sources in increasing precedence:
// defaults, the config file, BINDGEN_* environment variables and flags
// set on the command line. An empty path searches for bindgen.toml from
// the working directory upwards; a missing file is not an error then.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path == "" {
		path = findProjectConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// findProjectConfig walks up from the working directory looking for
// bindgen.toml and returns its path, or "" when there is none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks that the configuration can drive a generation.
func (c *Config) Validate() error {
	if c.Header == "" {
		return errors.WithHint(
			errors.New("no header file given"),
			"pass the header as an argument or set header in "+FileName)
	}
	if _, err := generator.ParseTarget(c.Target); err != nil {
		return errors.Wrap(err, "invalid target")
	}
	if c.Preprocess.Enabled && strings.TrimSpace(c.Preprocess.Command) == "" {
		return errors.New("preprocess.command cannot be empty when preprocess.enabled is set")
	}
	return nil
}

// Write encodes cfg as TOML at path. An existing file is not overwritten.
func Write(path string, cfg *Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"remove it or edit it by hand")
		}
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to write %s", path)
}
