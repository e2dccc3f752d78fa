// Package config handles loading smquery configuration.
//
// Settings come from, in increasing precedence: built-in defaults, a config
// file, SMQUERY_* environment variables, and command line flags. The config
// file is named smquery.json, smquery.yaml or .smqueryrc and is searched for
// in the current directory and parent directories, then in
// ~/.config/smquery/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mstoykov/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
// JSON files are read with the YAML decoder.
type Config struct {
	// SourceRoot replaces the sourceRoot of every loaded map
	SourceRoot *string `yaml:"sourceRoot,omitempty" json:"sourceRoot,omitempty"`

	// Format is "text" or "json"
	Format *string `yaml:"format,omitempty" json:"format,omitempty"`

	// Color enables colored text output
	Color *bool `yaml:"color,omitempty" json:"color,omitempty"`

	// LogLevel is a logrus level name
	LogLevel *string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`

	// Context is the number of original source lines printed around a hit
	Context *int `yaml:"context,omitempty" json:"context,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"smquery.json",
	"smquery.yaml",
	".smqueryrc",
}

// UserConfigPath returns the per-user config file location under home.
func UserConfigPath(home string) string {
	return filepath.Join(home, ".config", "smquery", "config.yaml")
}

// Load searches for a config file starting from the given directory and
// walking up to parent directories, falling back to the user config under
// home. Returns nil if no config file is found.
func Load(fs afero.Fs, startDir, home string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if ok, _ := afero.Exists(fs, path); ok {
				cfg, err := LoadFile(fs, path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home == "" {
		return nil, "", nil
	}
	path := UserConfigPath(home)
	if ok, _ := afero.Exists(fs, path); !ok {
		return nil, "", nil
	}
	cfg, err := LoadFile(fs, path)
	return cfg, path, err
}

// LoadFile loads configuration from a specific file path.
func LoadFile(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &cfg, nil
}

// Env holds the SMQUERY_* environment variables.
type Env struct {
	SourceRoot null.String `envconfig:"SMQUERY_SOURCE_ROOT"`
	Format     null.String `envconfig:"SMQUERY_FORMAT"`
	Color      null.Bool   `envconfig:"SMQUERY_COLOR"`
	LogLevel   null.String `envconfig:"SMQUERY_LOG_LEVEL"`
	Context    null.Int    `envconfig:"SMQUERY_CONTEXT"`
}

// LoadEnv reads the environment through lookup, which has the signature of
// os.LookupEnv.
func LoadEnv(lookup func(string) (string, bool)) (Env, error) {
	var env Env
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("", &env, lookup); err != nil {
		return env, errors.Wrap(err, "reading environment")
	}
	return env, nil
}

// EnvMap turns a KEY=VALUE list such as os.Environ() into a lookup function.
func EnvMap(environ []string) func(string) (string, bool) {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Options are the consolidated settings the command line tools run with.
type Options struct {
	SourceRoot string
	Format     string
	Color      bool
	LogLevel   string
	Context    int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		Color:    true,
		LogLevel: "warn",
	}
}

// ToOptions converts a Config to Options, using defaults for unset fields.
// A nil Config yields the defaults.
func (c *Config) ToOptions() Options {
	opts := DefaultOptions()
	if c == nil {
		return opts
	}

	if c.SourceRoot != nil {
		opts.SourceRoot = *c.SourceRoot
	}
	if c.Format != nil {
		opts.Format = *c.Format
	}
	if c.Color != nil {
		opts.Color = *c.Color
	}
	if c.LogLevel != nil {
		opts.LogLevel = *c.LogLevel
	}
	if c.Context != nil {
		opts.Context = *c.Context
	}
	return opts
}

// Apply overrides opts with every valid environment value.
func (e Env) Apply(opts Options) Options {
	if e.SourceRoot.Valid {
		opts.SourceRoot = e.SourceRoot.String
	}
	if e.Format.Valid {
		opts.Format = e.Format.String
	}
	if e.Color.Valid {
		opts.Color = e.Color.Bool
	}
	if e.LogLevel.Valid {
		opts.LogLevel = e.LogLevel.String
	}
	if e.Context.Valid {
		opts.Context = int(e.Context.Int64)
	}
	return opts
}

// MergeOptions holds command line overrides.
type MergeOptions struct {
	// CLI flags (nil means not specified on CLI)
	SourceRoot *string
	Format     *string
	LogLevel   *string
	Context    *int
	NoColor    bool
}

// Merge consolidates the config file, environment and CLI options.
// CLI options override environment values, which override the file.
func (c *Config) Merge(env Env, cli MergeOptions) (Options, error) {
	opts := env.Apply(c.ToOptions())

	if cli.SourceRoot != nil {
		opts.SourceRoot = *cli.SourceRoot
	}
	if cli.Format != nil {
		opts.Format = *cli.Format
	}
	if cli.LogLevel != nil {
		opts.LogLevel = *cli.LogLevel
	}
	if cli.Context != nil {
		opts.Context = *cli.Context
	}
	if cli.NoColor {
		opts.Color = false
	}

	return opts, opts.Validate()
}

// Validate checks option values that cannot be checked by type alone.
func (o Options) Validate() error {
	switch o.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("invalid format %q, expected %q or %q", o.Format, FormatText, FormatJSON)
	}
	if o.Context < 0 {
		return errors.Errorf("context must not be negative, got %d", o.Context)
	}
	return nil
}
