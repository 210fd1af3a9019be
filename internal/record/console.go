package record

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/rocketsim/internal/sim"
)

// ConsoleSink writes the tab-delimited stream. It does not own w.
type ConsoleSink struct {
	w           io.Writer
	wroteHeader bool
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Emit(r sim.Record) error {
	if !c.wroteHeader {
		if _, err := fmt.Fprintln(c.w, strings.Join(Columns, "\t")); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	_, err := fmt.Fprintln(c.w, strings.Join(Fields(r), "\t"))
	return err
}

func (c *ConsoleSink) Finish(res *sim.Result) error {
	if !res.Landed() {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "Rocket has landed/crashed at x = %sm\n", formatFloat(res.Final.X))
	return err
}

func (c *ConsoleSink) Close() error { return nil }
