package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/smquery/internal/config"
	"github.com/HugoDaniel/smquery/internal/sourcemap"
)

// generatedPosition is a query position as given on the command line.
type generatedPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type lookupResult struct {
	Generated generatedPosition          `json:"generated"`
	Original  sourcemap.OriginalPosition `json:"original"`
}

// parsePosition parses "line:column" with a 1-indexed line and a 0-indexed
// column.
func parsePosition(s string) (generatedPosition, error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return generatedPosition{}, errors.Errorf("invalid position %q, expected line:column", s)
	}
	line, err := strconv.Atoi(l)
	if err != nil || line < 1 {
		return generatedPosition{}, errors.Errorf("invalid line in %q, expected a number from 1", s)
	}
	column, err := strconv.Atoi(c)
	if err != nil || column < 0 {
		return generatedPosition{}, errors.Errorf("invalid column in %q, expected a number from 0", s)
	}
	return generatedPosition{Line: line, Column: column}, nil
}

func getLookupCmd(root *rootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <file> <line:column>...",
		Short: "Find the original position of generated positions",
		Long: `Find the original position of one or more generated positions.

<file> is a source map, a gzip-compressed source map, or a generated file
with a sourceMappingURL comment. Lines are 1-indexed and columns 0-indexed.`,
		Example: `  smquery lookup dist/app.js.map 1:120
  smquery lookup --context 2 dist/app.js 3:14 7:0`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions := make([]generatedPosition, 0, len(args)-1)
			for _, arg := range args[1:] {
				pos, err := parsePosition(arg)
				if err != nil {
					return err
				}
				positions = append(positions, pos)
			}

			c, err := root.loader.Load(args[0])
			if err != nil {
				return err
			}

			results := make([]lookupResult, len(positions))
			for i, pos := range positions {
				results[i] = lookupResult{
					Generated: pos,
					Original:  c.OriginalPositionFor(pos.Line, pos.Column),
				}
			}

			if root.opts.Format == config.FormatJSON {
				return root.out.json(results)
			}
			for _, r := range results {
				printLookup(root, c, r)
			}
			return nil
		},
	}
	cmd.Flags().Int("context", 0, "print `n` lines of original source on each side of a hit")
	return cmd
}

func printLookup(root *rootCommand, c *sourcemap.Consumer, r lookupResult) {
	out := root.out
	gen := out.generated.Sprintf("%d:%d", r.Generated.Line, r.Generated.Column)
	if !r.Original.Found() {
		out.printf("%s -> %s\n", gen, out.faint.Sprint("no mapping"))
		return
	}

	o := r.Original
	out.printf("%s -> %s\n", gen, out.position(o.Source.String, int(o.Line.Int64), int(o.Column.Int64), o.Name.String))

	if root.opts.Context <= 0 {
		return
	}
	content, ok := c.SourceContentFor(o.Source.String)
	if !ok {
		root.gs.Logger.WithField("source", o.Source.String).Debug("No sourcesContent for source")
		return
	}
	if ex, ok := sourcemap.NewExcerpt(content, int(o.Line.Int64), int(o.Column.Int64), root.opts.Context); ok {
		out.excerpt(ex)
	}
}
