package object

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/tomz197/demonattack/internal/draw"
)

// PlayerBlinkFrequency is how fast the cannon blinks while invincible.
const PlayerBlinkFrequency = 10.0

// Draw renders the cannon, blinking while invincible.
func (p *Player) Draw(ctx DrawContext) {
	if !ShouldRenderBlink(p.invincible, PlayerBlinkFrequency) {
		return
	}
	c := ctx.Canvas
	c.FillRect(p.pos.X-PlayerWidth/2, p.pos.Y-PlayerHeight/4, PlayerWidth, PlayerHeight/2, colornames.Green)
	c.FillRect(p.pos.X-5, p.pos.Y-PlayerHeight/2-5, 10, 10, colornames.Lightgreen)
}

// Draw renders the bullet when in flight.
func (b *Bullet) Draw(ctx DrawContext) {
	if !b.active {
		return
	}
	r := b.Bounds()
	ctx.Canvas.FillRect(r.X, r.Y, r.W, r.H, colornames.Yellow)
}

// Draw renders the bullet when in flight.
func (b *DemonBullet) Draw(ctx DrawContext) {
	if !b.active {
		return
	}
	r := b.Bounds()
	ctx.Canvas.FillRect(r.X, r.Y, r.W, r.H, colornames.Red)
}

// Draw renders every bullet in flight.
func (p *BulletPool) Draw(ctx DrawContext) {
	for _, b := range p.slots {
		b.Draw(ctx)
	}
}

// Draw renders the demon body, wings, horns and eyes.
func (d *Demon) Draw(ctx DrawContext) {
	if !d.active {
		return
	}
	c := ctx.Canvas
	s := d.Scale()
	body := draw.Scale(d.appearance.Color, d.Pulse())
	dark := draw.Scale(d.appearance.Color, 0.5)

	flap := d.WingFlap()
	if d.leftWing {
		d.drawWing(c, -1, s, flap, draw.Scale(body, 0.7))
	}
	if d.rightWing {
		d.drawWing(c, 1, s, flap, draw.Scale(body, 0.7))
	}

	// Horns.
	for _, side := range []float64{-1, 1} {
		base := draw.Point{X: d.pos.X + side*8*s, Y: d.pos.Y - 12*s}
		tip := draw.Point{X: base.X + side*4*s, Y: base.Y - 12*s}
		c.DrawLine(base, tip, dark)
	}

	c.DrawPolygon(ellipse(c, d.pos.X, d.pos.Y, 16*s, 12*s), true, body)

	eyeY := d.pos.Y - 6*s
	c.FillRect(d.pos.X-6*s-1, eyeY-1, 3, 3, colornames.White)
	c.FillRect(d.pos.X+6*s-1, eyeY-1, 3, 3, colornames.White)
}

// drawWing draws one wing on the given side (-1 left, +1 right). The tip
// moves with the flap.
func (d *Demon) drawWing(c *draw.Canvas, side, s, flap float64, clr color.RGBA) {
	rootX := d.pos.X + side*12*s
	rootY := d.pos.Y - 6*s
	w, h := 22*s, 18*s
	tipY := rootY - h/2 + flap*h/3

	pts := c.BorrowPoints(3)
	switch d.appearance.Wings {
	case WingsClaw:
		pts[0] = draw.Point{X: rootX, Y: rootY - h/3}
		pts[1] = draw.Point{X: rootX + side*w, Y: tipY + h/2}
		pts[2] = draw.Point{X: rootX, Y: rootY + h/3}
	default:
		pts[0] = draw.Point{X: rootX, Y: rootY + h/4}
		pts[1] = draw.Point{X: rootX + side*w, Y: tipY}
		pts[2] = draw.Point{X: rootX + side*w*0.6, Y: rootY + h/2}
	}
	c.DrawPolygon(pts, true, clr)
}

// ellipse approximates an ellipse with a polygon in the canvas scratch buffer.
func ellipse(c *draw.Canvas, cx, cy, rx, ry float64) []draw.Point {
	const segments = 12
	pts := c.BorrowPoints(segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = draw.Point{X: cx + math.Cos(a)*rx, Y: cy + math.Sin(a)*ry}
	}
	return pts
}
