package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the maximum bytes to write at once. It stays under a typical
// MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// ChunkWriter accumulates a frame of terminal output and writes it in
// MTU-sized chunks on Flush. It implements io.Writer for Canvas.Render.
type ChunkWriter struct {
	buf  []byte
	bufw *bufio.Writer
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.Write(chunk); err != nil {
			cw.buf = cw.buf[:0]
			return err
		}
		if err := cw.bufw.Flush(); err != nil {
			cw.buf = cw.buf[:0]
			return err
		}
		data = data[len(chunk):]
	}
	cw.buf = cw.buf[:0]
	return nil
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FitTerminal clamps the terminal size to maxW x maxH and returns the render
// size together with the offsets that centre it.
func FitTerminal(termWidth, termHeight, maxW, maxH int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, maxW)
	renderHeight = min(termHeight, maxH)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// RenderBorder draws a box around the canvas area when the terminal has room
// for it on either axis.
func RenderBorder(w io.Writer, c *Canvas) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var b strings.Builder
	b.WriteString("\033[0m")
	if hasV {
		if hasH {
			fmt.Fprintf(&b, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&b, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&b, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&b, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&b, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, b.String())
}
