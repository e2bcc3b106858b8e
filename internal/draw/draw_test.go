package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func TestFillRectCoversAtLeastOnePixel(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(50, 50, 1, 1, red)

	assert.Equal(t, red, c.pixels[5*10+5])
	n := 0
	for _, p := range c.pixels {
		if p.A != 0 {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer

	require.NoError(t, c.Render(&out))
	assert.Equal(t, 8, strings.Count(out.String(), "H"), "first frame paints every cell")

	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Empty(t, out.String())

	c.SetFloat(1, 0, red)
	require.NoError(t, c.Render(&out))
	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "H"))
	assert.Contains(t, s, "\033[1;2H")
	assert.Contains(t, s, "\033[38;2;255;0;0m")

	out.Reset()
	c.ForceRedraw()
	require.NoError(t, c.Render(&out))
	assert.Equal(t, 8, strings.Count(out.String(), "H"))
}

func TestTextCoversPixels(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRect(0, 0, 4, 4, red)
	c.Text(1, 0, "hi", color.RGBA{R: 255, G: 255, B: 255, A: 255})

	var out bytes.Buffer
	require.NoError(t, c.Render(&out))
	assert.Contains(t, out.String(), "h")
	assert.Contains(t, out.String(), "i")

	c.Clear()
	out.Reset()
	require.NoError(t, c.Render(&out))
	assert.Equal(t, 8, strings.Count(out.String(), "H"), "every cell changed back")
}

func TestCenterText(t *testing.T) {
	c := NewScaledCanvas(10, 1, 10, 2)
	c.CenterText(0, "ab", red)
	assert.Equal(t, 'a', c.text[4])
	assert.Equal(t, 'b', c.text[5])
}

type countingWriter struct {
	writes []int
	bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func TestChunkWriterFlush(t *testing.T) {
	var w countingWriter
	cw := NewChunkWriter(&w)
	payload := strings.Repeat("x", 3000)
	cw.WriteString(payload)

	require.NoError(t, cw.Flush())
	assert.Equal(t, payload, w.String())
	assert.Equal(t, []int{1400, 1400, 200}, w.writes)

	require.NoError(t, cw.Flush())
	assert.Len(t, w.writes, 3, "nothing left to send")
}

func TestFitTerminal(t *testing.T) {
	rw, rh, oc, or := FitTerminal(200, 80, 160, 60)
	assert.Equal(t, []int{160, 60, 20, 10}, []int{rw, rh, oc, or})

	rw, rh, oc, or = FitTerminal(100, 30, 160, 60)
	assert.Equal(t, []int{100, 30, 0, 0}, []int{rw, rh, oc, or})
}

func TestScale(t *testing.T) {
	got := Scale(color.RGBA{R: 100, G: 200, B: 50, A: 255}, 2)
	assert.Equal(t, color.RGBA{R: 200, G: 255, B: 100, A: 255}, got)
}
