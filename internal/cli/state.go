package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// GlobalState holds everything a command touches outside of its flags.
// Tests replace the filesystem, streams and environment.
type GlobalState struct {
	FS      afero.Fs
	Stdout  io.Writer
	Stderr  io.Writer
	Environ []string
	Cwd     string
	Home    string

	// StdoutTTY enables color when the config does not disable it.
	StdoutTTY bool

	Logger *logrus.Logger

	// Version and Commit identify the build for the version command.
	Version string
	Commit  string
}

// NewGlobalState returns the state of the running process.
func NewGlobalState() *GlobalState {
	logger := &logrus.Logger{
		Out:       os.Stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.WarnLevel,
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Warn("could not get working directory")
		cwd = "."
	}
	home, err := homedir.Dir()
	if err != nil {
		logger.WithError(err).Debug("could not get home directory")
	}

	fd := os.Stdout.Fd()
	return &GlobalState{
		FS:        afero.NewOsFs(),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Environ:   os.Environ(),
		Cwd:       cwd,
		Home:      home,
		StdoutTTY: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		Logger:    logger,
	}
}
