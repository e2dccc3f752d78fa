package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/HugoDaniel/smquery/internal/sourcemap"
)

// printer writes command output, colored when enabled.
type printer struct {
	w io.Writer

	generated *color.Color
	source    *color.Color
	name      *color.Color
	faint     *color.Color
	caret     *color.Color
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:         w,
		generated: color.New(color.FgCyan),
		source:    color.New(color.FgGreen),
		name:      color.New(color.FgYellow),
		faint:     color.New(color.Faint),
		caret:     color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.generated, p.source, p.name, p.faint, p.caret} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// json writes v as indented JSON followed by a newline.
func (p *printer) json(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "writing JSON")
}

// position formats an original position as source:line:column [name].
func (p *printer) position(source string, line, column int, name string) string {
	s := p.source.Sprintf("%s:%d:%d", source, line, column)
	if name != "" {
		s += " " + p.name.Sprint(name)
	}
	return s
}

// excerpt writes numbered source lines with a caret under the position.
func (p *printer) excerpt(ex sourcemap.Excerpt) {
	width := len(fmt.Sprint(ex.Lines[len(ex.Lines)-1].Number))
	for _, l := range ex.Lines {
		marker := " "
		if l.Number == ex.Line {
			marker = ">"
		}
		p.printf("  %s %s %s\n", marker, p.faint.Sprintf("%*d |", width, l.Number), l.Text)
		if l.Number == ex.Line {
			p.printf("    %s %s%s\n", strings.Repeat(" ", width+2), strings.Repeat(" ", ex.Caret), p.caret.Sprint("^"))
		}
	}
}
