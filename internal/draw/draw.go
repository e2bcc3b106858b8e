// Package draw renders the playfield to an ANSI terminal using half-block
// characters, giving each terminal cell two vertically stacked coloured pixels.
package draw

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
)

// Point represents a 2D coordinate in logical playfield space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// ResetStyle clears any colour attributes.
func ResetStyle(w io.Writer) {
	fmt.Fprint(w, "\033[0m")
}

// Bell rings the terminal bell.
func Bell(w io.Writer) {
	fmt.Fprint(w, "\a")
}

// appendFG appends a 24-bit foreground colour sequence to buf.
func appendFG(buf []byte, c color.RGBA) []byte {
	return appendSGR(buf, "38", c)
}

// appendBG appends a 24-bit background colour sequence to buf.
func appendBG(buf []byte, c color.RGBA) []byte {
	return appendSGR(buf, "48", c)
}

func appendSGR(buf []byte, kind string, c color.RGBA) []byte {
	buf = append(buf, "\033["...)
	buf = append(buf, kind...)
	buf = append(buf, ";2;"...)
	buf = strconv.AppendInt(buf, int64(c.R), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(c.G), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(c.B), 10)
	return append(buf, 'm')
}

// appendMove appends a 1-based cursor position sequence to buf.
func appendMove(buf []byte, col, row int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

// Scale multiplies the colour channels by f, clamping to the valid range.
// Alpha is left untouched.
func Scale(c color.RGBA, f float64) color.RGBA {
	ch := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			return 255
		}
		if s < 0 {
			return 0
		}
		return uint8(s)
	}
	return color.RGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
