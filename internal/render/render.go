// Package render prints operation results as indented JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tidwall/pretty"
)

// Printer writes values to an output stream, colouring them on terminals.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter returns a Printer for out. Colour is enabled only when out is a
// terminal.
func NewPrinter(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{out: out, color: color}
}

// Print writes v followed by a newline.
func (p *Printer) Print(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	formatted := pretty.Pretty(raw)
	if p.color {
		formatted = pretty.Color(formatted, pretty.TerminalStyle)
	}

	_, err = p.out.Write(formatted)
	return err
}
