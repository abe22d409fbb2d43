package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters for one output stream.
type DisplayContext struct {
	TermWidth int  // detected or fallback terminal width
	IsTTY     bool // whether the stream is a terminal
}

// NewDisplayContext inspects w. Anything that is not a terminal *os.File
// (buffers, pipes, redirected files) gets the fallback width and IsTTY=false.
func NewDisplayContext(w io.Writer) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}

	f, ok := w.(*os.File)
	if !ok {
		return d
	}
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return d
	}

	d.IsTTY = true
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		d.TermWidth = width
	}
	return d
}

// AvailableWidth returns the usable width after accounting for left margin.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > 0 {
		return w
	}
	return d.TermWidth
}
