package loop

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"golang.org/x/image/colornames"

	"github.com/tomz197/demonattack/internal/draw"
	"github.com/tomz197/demonattack/internal/gamestate"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/object"
)

// scoreTable is implemented by stores that can list their entries.
type scoreTable interface {
	Entries() []highscore.Entry
}

var titleArt = []string{
	` ___  ___ __  __  ___  _  _     _  _____ _____ _   ___ _  __`,
	`|   \| __|  \/  |/ _ \| \| |   /_\|_   _|_   _/_\ / __| |/ /`,
	"| |) | _|| |\\/| | (_) | .` |  / _ \\ | |   | |/ _ \\ (__| ' < ",
	`|___/|___|_|  |_|\___/|_|\_| /_/ \_\|_|   |_|/_/ \_\___|_|\_\`,
}

var (
	textColor   = colornames.White
	accentColor = colornames.Yellow
	dimColor    = colornames.Gray
	alertColor  = colornames.Red
	groundColor = color.RGBA{R: 0x30, G: 0x60, B: 0x30, A: 0xff}
)

// drawFrame draws the playfield and the text for the current screen, then
// flushes only what changed since the last frame.
func (c *Client) drawFrame() error {
	c.canvas.Clear()

	switch {
	case c.shuttingDown:
		c.drawShutdownScreen()
	case c.inactive:
		c.drawInactivityScreen()
	default:
		switch c.game.Mode() {
		case gamestate.Title:
			c.drawTitleScreen()
		case gamestate.Playing:
			c.drawField()
			c.drawPlayingHUD()
		case gamestate.GameOver:
			c.drawField()
			c.drawGameOverScreen()
		case gamestate.EnteringInitials:
			c.drawInitialsScreen()
		}
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if c.borderDirty {
		draw.RenderBorder(c.chunkWriter, c.canvas)
		c.borderDirty = false
	}
	return c.chunkWriter.Flush()
}

func (c *Client) drawField() {
	ctx := object.DrawContext{Canvas: c.canvas}
	screen := c.game.Screen()

	c.canvas.FillRect(0, screen.Height-22, screen.Width, 4, groundColor)

	for _, d := range c.game.Waves().Demons() {
		d.Draw(ctx)
	}
	c.game.Waves().Bullets().Draw(ctx)
	c.game.Bullet().Draw(ctx)
	if c.game.Mode() == gamestate.Playing {
		c.game.Player().Draw(ctx)
	}
}

func (c *Client) drawTitleScreen() {
	cv := c.canvas
	row := cv.TerminalHeight()/2 - 12
	if row < 1 {
		row = 1
	}

	if cv.TerminalWidth() >= len(titleArt[0])+2 {
		for i, line := range titleArt {
			cv.CenterText(row+i, line, colornames.Magenta)
		}
		row += len(titleArt) + 1
	} else {
		cv.CenterText(row, "D E M O N   A T T A C K", colornames.Magenta)
		row += 2
	}

	cv.CenterText(row, "Press SPACE or ENTER to start", accentColor)
	row += 2
	cv.CenterText(row, "A/D or Arrows to move, SPACE/W/Up to fire, ESC to quit", dimColor)
	row += 3

	c.drawHighScoreTable(row)
}

func (c *Client) drawHighScoreTable(row int) {
	table, ok := c.opts.Scores.(scoreTable)
	if !ok {
		return
	}
	entries := table.Entries()
	cv := c.canvas

	cv.CenterText(row, "HIGH SCORES", accentColor)
	row += 2
	if len(entries) == 0 {
		cv.CenterText(row, "no scores yet", dimColor)
		return
	}
	for i, e := range entries {
		line := fmt.Sprintf("%2d.  %-3s  %7d  %s", i+1, e.Initials, e.Score, e.Date.Format(time.DateOnly))
		clr := textColor
		if i == 0 {
			clr = accentColor
		}
		cv.CenterText(row+i, line, clr)
	}
}

func (c *Client) drawPlayingHUD() {
	cv := c.canvas
	st := c.game.State()
	width := cv.TerminalWidth()
	height := cv.TerminalHeight()

	cv.Text(1, 0, fmt.Sprintf("SCORE %06d", st.Score()), textColor)
	cv.CenterText(0, fmt.Sprintf("HI %06d", st.HighScore()), accentColor)
	waveText := fmt.Sprintf("WAVE %d", c.game.Waves().CurrentWave())
	cv.Text(width-len(waveText)-1, 0, waveText, textColor)

	if st.IsNewHighScore() {
		cv.CenterText(1, "NEW HIGH SCORE!", accentColor)
	}

	cv.Text(1, height-1, "LIVES "+strings.Repeat("^ ", st.Lives()), colornames.Lightgreen)

	if h := c.opts.Hub; h != nil {
		board := h.Board()
		players := fmt.Sprintf("PLAYERS %d", board.Players)
		cv.Text(width-len(players)-1, height-1, players, dimColor)
		for i, s := range board.Top {
			line := fmt.Sprintf("%d %-10.10s %6d", i+1, s.Username, s.Score)
			cv.Text(width-len(line)-1, 2+i, line, dimColor)
		}
	}

	if c.game.BetweenWaves() {
		cy := height / 2
		cv.CenterText(cy-1, fmt.Sprintf("WAVE %d CLEARED", c.game.Waves().CurrentWave()), accentColor)
		if st.NoDamageThisWave() {
			bonus := c.opts.Config.Rules.WaveClearBonus * c.game.Waves().CurrentWave()
			cv.CenterText(cy+1, fmt.Sprintf("PERFECT! BONUS +%d", bonus), textColor)
		}
	}
}

func (c *Client) drawGameOverScreen() {
	cv := c.canvas
	st := c.game.State()
	cy := cv.TerminalHeight() / 2

	cv.CenterText(cy-3, "G A M E   O V E R", alertColor)
	cv.CenterText(cy-1, fmt.Sprintf("SCORE %d   WAVE %d", st.Score(), c.game.Waves().CurrentWave()), textColor)
	if st.IsNewHighScore() {
		cv.CenterText(cy, "NEW HIGH SCORE!", accentColor)
	}

	if !c.game.GameOverReady() {
		return
	}
	if st.QualifiesForHighScore() {
		cv.CenterText(cy+2, "Press ENTER to record your initials", accentColor)
	} else {
		cv.CenterText(cy+2, "Press ENTER to play again, SPACE for the title screen", dimColor)
	}
}

func (c *Client) drawInitialsScreen() {
	cv := c.canvas
	st := c.game.State()
	cy := cv.TerminalHeight() / 2

	cv.CenterText(cy-4, "NEW HIGH SCORE", accentColor)
	cv.CenterText(cy-2, fmt.Sprintf("%d", st.Score()), textColor)

	initials := st.Initials()
	letters := make([]string, len(initials))
	markers := make([]string, len(initials))
	for i := range initials {
		letters[i] = string(initials[i])
		markers[i] = " "
		if i == st.InitialsCursor() {
			markers[i] = "^"
		}
	}
	cv.CenterText(cy, strings.Join(letters, "   "), accentColor)
	cv.CenterText(cy+1, strings.Join(markers, "   "), accentColor)

	cv.CenterText(cy+3, "Type letters, or UP/DOWN to change and LEFT/RIGHT to move", dimColor)
	cv.CenterText(cy+4, "ENTER to save, SPACE to save and play again", dimColor)
}

func (c *Client) drawInactivityScreen() {
	cv := c.canvas
	cy := cv.TerminalHeight() / 2
	left := int(InactivityDisconnectUser - time.Since(c.lastInput).Seconds())

	cv.CenterText(cy-2, "INACTIVITY WARNING", alertColor)
	cv.CenterText(cy, fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)), textColor)
	cv.CenterText(cy+2, "Press any key to continue", dimColor)
}

func (c *Client) drawShutdownScreen() {
	cv := c.canvas
	cy := cv.TerminalHeight() / 2

	cv.CenterText(cy-3, "SERVER SHUTTING DOWN", alertColor)
	cv.CenterText(cy-1, "The server is restarting for maintenance.", textColor)
	cv.CenterText(cy, "Please reconnect in a moment.", textColor)
	cv.CenterText(cy+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.shutdownTimer)+1), textColor)
	cv.CenterText(cy+4, "Press ESC to disconnect now", dimColor)
}
