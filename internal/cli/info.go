package cli

import (
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/smquery/internal/config"
)

type sourceInfo struct {
	Name       string `json:"name"`
	HasContent bool   `json:"hasContent"`
}

type mapInfo struct {
	Version    int          `json:"version"`
	File       string       `json:"file"`
	SourceRoot string       `json:"sourceRoot"`
	Sources    []sourceInfo `json:"sources"`
	Names      int          `json:"names"`
	Mappings   int          `json:"mappings"`
}

func getInfoCmd(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a source map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loader.Load(args[0])
			if err != nil {
				return err
			}

			info := mapInfo{
				Version:    c.Version(),
				File:       c.File(),
				SourceRoot: c.SourceRoot(),
				Sources:    []sourceInfo{},
				Names:      len(c.Names()),
				Mappings:   c.Len(),
			}
			for _, s := range c.Sources() {
				_, ok := c.SourceContentFor(s)
				info.Sources = append(info.Sources, sourceInfo{Name: s, HasContent: ok})
			}

			if root.opts.Format == config.FormatJSON {
				return root.out.json(info)
			}

			out := root.out
			out.printf("file:        %s\n", info.File)
			out.printf("version:     %d\n", info.Version)
			if info.SourceRoot != "" {
				out.printf("source root: %s\n", info.SourceRoot)
			}
			out.printf("names:       %d\n", info.Names)
			out.printf("mappings:    %d\n", info.Mappings)
			out.printf("sources:     %d\n", len(info.Sources))
			for _, s := range info.Sources {
				if s.HasContent {
					out.printf("  %s %s\n", out.source.Sprint(s.Name), out.faint.Sprint("(content)"))
				} else {
					out.printf("  %s\n", out.source.Sprint(s.Name))
				}
			}
			return nil
		},
	}
}
