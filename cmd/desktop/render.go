package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"

	"github.com/tomz197/demonattack/internal/draw"
	"github.com/tomz197/demonattack/internal/gamestate"
	"github.com/tomz197/demonattack/internal/object"
	"github.com/tomz197/demonattack/internal/physics"
)

const lineHeight = 22

func (d *desktop) render(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	switch d.game.Mode() {
	case gamestate.Title:
		d.drawTitle(screen)
	case gamestate.Playing:
		d.drawField(screen)
		d.drawHUD(screen)
	case gamestate.GameOver:
		d.drawField(screen)
		d.drawGameOver(screen)
	case gamestate.EnteringInitials:
		d.drawInitials(screen)
	}

	if ebiten.IsKeyPressed(ebiten.KeyF3) {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), 4, 580)
	}
}

func fillRect(dst *ebiten.Image, r physics.Rect, clr color.Color) {
	if r.Empty() {
		return
	}
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func (d *desktop) centerText(dst *ebiten.Image, y int, s string, clr color.Color) {
	w := font.MeasureString(d.face, s).Ceil()
	text.Draw(dst, s, d.face, (dst.Bounds().Dx()-w)/2, y, clr)
}

func (d *desktop) drawField(dst *ebiten.Image) {
	s := d.game.Screen()
	vector.DrawFilledRect(dst, 0, float32(s.Height-22), float32(s.Width), 4, color.RGBA{R: 0x30, G: 0x60, B: 0x30, A: 0xff}, false)

	for _, dm := range d.game.Waves().Demons() {
		if dm.Active() {
			drawDemon(dst, dm)
		}
	}
	for _, b := range d.game.Waves().Bullets().Bullets() {
		if b.Active() {
			fillRect(dst, b.Bounds(), colornames.Red)
		}
	}
	if b := d.game.Bullet(); b.Active() {
		fillRect(dst, b.Bounds(), colornames.Yellow)
	}

	p := d.game.Player()
	if d.game.Mode() == gamestate.Playing && object.ShouldRenderBlink(p.InvincibleTime(), object.PlayerBlinkFrequency) {
		pos := p.Position()
		vector.DrawFilledRect(dst, float32(pos.X-object.PlayerWidth/2), float32(pos.Y-object.PlayerHeight/4),
			object.PlayerWidth, object.PlayerHeight/2, colornames.Green, false)
		vector.DrawFilledRect(dst, float32(pos.X-5), float32(pos.Y-object.PlayerHeight/2-5), 10, 10, colornames.Lightgreen, false)
	}
}

func drawDemon(dst *ebiten.Image, dm *object.Demon) {
	look := dm.Appearance()
	body := draw.Scale(look.Color, dm.Pulse())
	dark := draw.Scale(look.Color, 0.5)
	flap := float32(dm.WingFlap() * 4 * dm.Scale())

	for _, part := range []object.Part{object.PartLeftWing, object.PartRightWing} {
		if !dm.WingAlive(part) {
			continue
		}
		r := dm.WingBounds(part)
		if look.Wings == object.WingsClaw {
			vector.DrawFilledRect(dst, float32(r.X), float32(r.Y)+flap, float32(r.W), float32(r.H)/2, dark, false)
			continue
		}
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y)+flap, float32(r.W), float32(r.H), dark, false)
	}

	pos := dm.Position()
	b := dm.Bounds()
	fillRect(dst, b, body)

	s := float32(dm.Scale())
	x, y := float32(pos.X), float32(pos.Y)
	vector.StrokeLine(dst, x-8*s, float32(b.Y), x-12*s, float32(b.Y)-8*s, 2, body, false)
	vector.StrokeLine(dst, x+8*s, float32(b.Y), x+12*s, float32(b.Y)-8*s, 2, body, false)
	vector.DrawFilledCircle(dst, x-7*s, y-4*s, 3*s, colornames.White, true)
	vector.DrawFilledCircle(dst, x+7*s, y-4*s, 3*s, colornames.White, true)
}

func (d *desktop) drawTitle(dst *ebiten.Image) {
	y := 140
	d.centerText(dst, y, "D E M O N   A T T A C K", colornames.Magenta)
	y += 2 * lineHeight
	d.centerText(dst, y, "Press SPACE or ENTER to start", colornames.Yellow)
	y += lineHeight
	d.centerText(dst, y, "A/D or arrows to move, SPACE/W/Up to fire, ESC to quit", colornames.Gray)
	y += 3 * lineHeight

	d.centerText(dst, y, "HIGH SCORES", colornames.Yellow)
	y += lineHeight
	entries := d.scores.Entries()
	if len(entries) == 0 {
		d.centerText(dst, y, "no scores yet", colornames.Gray)
		return
	}
	for i, e := range entries {
		line := fmt.Sprintf("%2d.  %-3s  %7d  %s", i+1, e.Initials, e.Score, e.Date.Format(time.DateOnly))
		d.centerText(dst, y+i*lineHeight, line, colornames.White)
	}
}

func (d *desktop) drawHUD(dst *ebiten.Image) {
	st := d.game.State()
	text.Draw(dst, fmt.Sprintf("SCORE %06d", st.Score()), d.face, 10, 20, colornames.White)
	d.centerText(dst, 20, fmt.Sprintf("HI %06d", st.HighScore()), colornames.Yellow)
	wave := fmt.Sprintf("WAVE %d", d.game.Waves().CurrentWave())
	text.Draw(dst, wave, d.face, dst.Bounds().Dx()-10-font.MeasureString(d.face, wave).Ceil(), 20, colornames.White)
	text.Draw(dst, "LIVES "+strings.Repeat("^ ", st.Lives()), d.face, 10, dst.Bounds().Dy()-4, colornames.Lightgreen)

	if st.IsNewHighScore() {
		d.centerText(dst, 44, "NEW HIGH SCORE!", colornames.Yellow)
	}
	if d.game.BetweenWaves() {
		d.centerText(dst, 280, fmt.Sprintf("WAVE %d CLEARED", d.game.Waves().CurrentWave()), colornames.Yellow)
		if st.NoDamageThisWave() {
			d.centerText(dst, 310, fmt.Sprintf("PERFECT! BONUS +%d", d.bonus*d.game.Waves().CurrentWave()), colornames.White)
		}
	}
}

func (d *desktop) drawGameOver(dst *ebiten.Image) {
	st := d.game.State()
	d.centerText(dst, 240, "G A M E   O V E R", colornames.Red)
	d.centerText(dst, 280, fmt.Sprintf("SCORE %d   WAVE %d", st.Score(), d.game.Waves().CurrentWave()), colornames.White)
	if st.IsNewHighScore() {
		d.centerText(dst, 305, "NEW HIGH SCORE!", colornames.Yellow)
	}
	if !d.game.GameOverReady() {
		return
	}
	if st.QualifiesForHighScore() {
		d.centerText(dst, 350, "Press ENTER to record your initials", colornames.Yellow)
	} else {
		d.centerText(dst, 350, "Press ENTER to play again, SPACE for the title screen", colornames.Gray)
	}
}

func (d *desktop) drawInitials(dst *ebiten.Image) {
	st := d.game.State()
	d.centerText(dst, 200, "NEW HIGH SCORE", colornames.Yellow)
	d.centerText(dst, 240, fmt.Sprintf("%d", st.Score()), colornames.White)

	initials := st.Initials()
	const spacing = 40
	startX := (dst.Bounds().Dx() - spacing*(len(initials)-1)) / 2
	for i := range initials {
		x := startX + i*spacing
		clr := colornames.White
		if i == st.InitialsCursor() {
			clr = colornames.Yellow
			vector.DrawFilledRect(dst, float32(x-8), 310, 16, 3, colornames.Yellow, false)
		}
		text.Draw(dst, string(initials[i]), d.face, x-5, 300, clr)
	}

	d.centerText(dst, 360, "Type letters, or UP/DOWN to change and LEFT/RIGHT to move", colornames.Gray)
	d.centerText(dst, 385, "ENTER to save, SPACE to save and play again", colornames.Gray)
}
