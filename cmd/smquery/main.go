// Command smquery maps generated positions back to original sources using
// Source Map v3 files.
//
// Usage:
//
//	smquery lookup <file> <line:column>...
//	smquery mappings <file>
//	smquery info <file>
//	smquery version
//
// <file> is a source map (optionally gzip-compressed) or a generated file
// with a sourceMappingURL comment. Lines are 1-indexed, columns 0-indexed.
//
// Global options:
//
//	--config <file>        Use specific config file
//	--no-config            Ignore config files
//	--source-root <path>   Replace the map's sourceRoot
//	--format text|json     Output format (default: text)
//	--no-color             Disable colored output
//	--log-level <level>    Log level (default: warn)
//
// Config file:
//
//	smquery looks for smquery.json, smquery.yaml or .smqueryrc in the current
//	directory and parent directories, then ~/.config/smquery/config.yaml.
//	SMQUERY_* environment variables override the file and CLI flags
//	override both.
//
// Example smquery.yaml:
//
//	sourceRoot: /home/me/project
//	format: text
//	context: 2
package main

import (
	"fmt"
	"os"

	"github.com/HugoDaniel/smquery/internal/cli"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	gs := cli.NewGlobalState()
	gs.Version, gs.Commit = version, commit
	return cli.Execute(gs, os.Args[1:])
}
