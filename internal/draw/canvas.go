package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"unicode/utf8"
)

// cell is what a single terminal cell shows: two stacked pixels, or a text rune.
type cell struct {
	top    color.RGBA
	bottom color.RGBA
	ch     rune
	fg     color.RGBA
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Game objects draw in logical playfield coordinates; the canvas scales them to the
// terminal. Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int
	pixels         []color.RGBA // [y*termWidth+x], alpha 0 means unset
	text           []rune       // [row*termWidth+col], 0 means no text
	textColor      []color.RGBA

	drawn []cell // what the terminal currently shows
	valid bool   // false forces a full redraw

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	offsetCol int
	offsetRow int

	out             []byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]color.RGBA, c.subPixelHeight*termWidth)
		c.text = make([]rune, termWidth*termHeight)
		c.textColor = make([]color.RGBA, termWidth*termHeight)
		c.drawn = make([]cell, termWidth*termHeight)
		c.valid = false
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset used to centre the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.valid = false
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.valid = false
}

// Clear resets all pixels and text.
func (c *Canvas) Clear() {
	clear(c.pixels)
	clear(c.text)
}

func (c *Canvas) setPixel(x, y int, clr color.RGBA) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = clr
	}
}

// SetFloat sets a pixel using logical coordinates.
func (c *Canvas) SetFloat(x, y float64, clr color.RGBA) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), opaque(clr))
}

// FillRect fills the logical rectangle with top-left (x, y). Any rectangle
// covers at least one pixel so that small objects never vanish when scaled down.
func (c *Canvas) FillRect(x, y, w, h float64, clr color.RGBA) {
	clr = opaque(clr)
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := int(math.Ceil((x+w)*c.scaleX)) - 1
	y1 := int(math.Ceil((y+h)*c.scaleY)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py, clr)
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, clr color.RGBA) {
	clr = opaque(clr)
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.setPixel(x1, y1, clr)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon outline, filling the interior when filled is true.
func (c *Canvas) DrawPolygon(points []Point, filled bool, clr color.RGBA) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, opaque(clr))
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], clr)
	}
}

// fillPolygon fills a polygon with a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []Point, clr color.RGBA) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, clr)
			}
		}
	}
}

// Text places s on the text layer starting at the 0-based terminal cell
// (col, row). Text covers any pixels underneath. Runes past the edge are dropped.
func (c *Canvas) Text(col, row int, s string, clr color.RGBA) {
	if row < 0 || row >= c.termHeight {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.termWidth && r != ' ' {
			c.text[row*c.termWidth+col] = r
			c.textColor[row*c.termWidth+col] = opaque(clr)
		}
		col++
	}
}

// CenterText places s horizontally centred on the given row.
func (c *Canvas) CenterText(row int, s string, clr color.RGBA) {
	c.Text((c.termWidth-utf8.RuneCountInString(s))/2, row, s, clr)
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

// Render writes every cell that differs from the previous frame to w.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.out[:0]

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			cur := cell{
				top:    c.pixels[(row*2)*c.termWidth+col],
				bottom: c.pixels[(row*2+1)*c.termWidth+col],
			}
			if r := c.text[idx]; r != 0 {
				cur = cell{ch: r, fg: c.textColor[idx]}
			}
			if c.valid && c.drawn[idx] == cur {
				continue
			}
			c.drawn[idx] = cur

			buf = appendMove(buf, col+1+c.offsetCol, row+1+c.offsetRow)
			buf = append(buf, "\033[0m"...)
			buf = appendCell(buf, cur)
		}
	}
	c.valid = true

	if len(buf) == 0 {
		c.out = buf
		return nil
	}
	buf = append(buf, "\033[0m"...)
	c.out = buf
	_, err := w.Write(buf)
	return err
}

// appendCell appends the styled glyph for one cell. Style must be reset beforehand.
func appendCell(buf []byte, cl cell) []byte {
	switch {
	case cl.ch != 0:
		buf = appendFG(buf, cl.fg)
		return utf8.AppendRune(buf, cl.ch)
	case cl.top.A == 0 && cl.bottom.A == 0:
		return append(buf, BlockEmpty)
	case cl.bottom.A == 0:
		buf = appendFG(buf, cl.top)
		return utf8.AppendRune(buf, BlockUpperHalf)
	case cl.top.A == 0:
		buf = appendFG(buf, cl.bottom)
		return utf8.AppendRune(buf, BlockLowerHalf)
	case cl.top == cl.bottom:
		buf = appendFG(buf, cl.top)
		return utf8.AppendRune(buf, BlockFull)
	default:
		buf = appendFG(buf, cl.top)
		buf = appendBG(buf, cl.bottom)
		return utf8.AppendRune(buf, BlockUpperHalf)
	}
}

// opaque forces full alpha so a drawn pixel is never mistaken for an unset one.
func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}
