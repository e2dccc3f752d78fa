package cli

import (
	"github.com/spf13/cobra"

	"github.com/HugoDaniel/smquery/internal/config"
	"github.com/HugoDaniel/smquery/internal/sourcemap"
)

type mappingRecord struct {
	Generated generatedPosition          `json:"generated"`
	Original  sourcemap.OriginalPosition `json:"original"`
}

func newMappingRecord(m sourcemap.Mapping) mappingRecord {
	r := mappingRecord{Generated: generatedPosition{Line: m.GeneratedLine, Column: m.GeneratedColumn}}
	if o := m.Original; o != nil {
		r.Original.Source.SetValid(o.Source)
		r.Original.Line.SetValid(int64(o.Line))
		r.Original.Column.SetValid(int64(o.Column))
		if o.HasName() {
			r.Original.Name.SetValid(o.Name)
		}
	}
	return r
}

func getMappingsCmd(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings <file>",
		Short: "List every decoded mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loader.Load(args[0])
			if err != nil {
				return err
			}

			if root.opts.Format == config.FormatJSON {
				records := make([]mappingRecord, 0, c.Len())
				c.EachMapping(func(m sourcemap.Mapping) bool {
					records = append(records, newMappingRecord(m))
					return true
				})
				return root.out.json(records)
			}

			out := root.out
			c.EachMapping(func(m sourcemap.Mapping) bool {
				gen := out.generated.Sprintf("%d:%d", m.GeneratedLine, m.GeneratedColumn)
				if o := m.Original; o != nil {
					out.printf("%s -> %s\n", gen, out.position(o.Source, o.Line, o.Column, o.Name))
				} else {
					out.printf("%s\n", gen)
				}
				return true
			})
			return nil
		},
	}
}
