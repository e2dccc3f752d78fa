// Package cli implements the smquery command line interface.
package cli

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/HugoDaniel/smquery/internal/config"
	"github.com/HugoDaniel/smquery/internal/loader"
)

// rootCommand keeps the fields shared by all subcommands.
type rootCommand struct {
	gs  *GlobalState
	cmd *cobra.Command

	configFile string
	noConfig   bool
	sourceRoot string
	format     string
	noColor    bool
	logLevel   string

	opts   config.Options
	out    *printer
	loader *loader.Loader
}

func newRootCommand(gs *GlobalState) *rootCommand {
	c := &rootCommand{gs: gs}
	c.cmd = &cobra.Command{
		Use:               "smquery",
		Short:             "Query source maps for original positions",
		Long:              "smquery maps positions in generated JavaScript or CSS back to the original sources using Source Map v3 files.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetOut(gs.Stdout)
	c.cmd.SetErr(gs.Stderr)
	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())

	c.cmd.AddCommand(
		getLookupCmd(c),
		getMappingsCmd(c),
		getInfoCmd(c),
		getVersionCmd(c),
	)
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVar(&c.configFile, "config", "", "use a specific config `file`")
	flags.BoolVar(&c.noConfig, "no-config", false, "ignore config files")
	flags.StringVar(&c.sourceRoot, "source-root", "", "replace the source map's sourceRoot with `path`")
	flags.StringVar(&c.format, "format", config.FormatText, "output `format`: text or json")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log `level`: debug, info, warn or error")
	return flags
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfigFile()
	if err != nil {
		return err
	}
	env, err := config.LoadEnv(config.EnvMap(c.gs.Environ))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	cli := config.MergeOptions{NoColor: c.noColor}
	if flags.Changed("source-root") {
		cli.SourceRoot = &c.sourceRoot
	}
	if flags.Changed("format") {
		cli.Format = &c.format
	}
	if flags.Changed("log-level") {
		cli.LogLevel = &c.logLevel
	}
	if flags.Changed("context") {
		n, err := flags.GetInt("context")
		if err != nil {
			return err
		}
		cli.Context = &n
	}

	c.opts, err = cfg.Merge(env, cli)
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(c.opts.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	c.gs.Logger.SetLevel(level)

	c.out = newPrinter(c.gs.Stdout, c.opts.Color && c.gs.StdoutTTY)
	c.loader = loader.New(c.gs.FS, c.gs.Logger, loader.Options{SourceRoot: c.opts.SourceRoot})
	return nil
}

func (c *rootCommand) loadConfigFile() (*config.Config, error) {
	if c.noConfig {
		return nil, nil
	}
	if c.configFile != "" {
		cfg, err := config.LoadFile(c.gs.FS, c.configFile)
		return cfg, errors.Wrapf(err, "loading config file %s", c.configFile)
	}

	cfg, path, err := config.Load(c.gs.FS, filepath.Clean(c.gs.Cwd), c.gs.Home)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if path != "" {
		c.gs.Logger.WithField("path", path).Debug("Using config file")
	}
	return cfg, nil
}

// Execute runs the command line with args, excluding the program name.
func Execute(gs *GlobalState, args []string) error {
	c := newRootCommand(gs)
	c.cmd.SetArgs(args)
	return c.cmd.Execute()
}
