// Package loop runs the game: Game holds the rules of a single session and
// Client drives one in a terminal at a fixed frame rate.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/draw"
	"github.com/tomz197/demonattack/internal/gamestate"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/hub"
	"github.com/tomz197/demonattack/internal/input"
)

// Options configures a terminal session.
type Options struct {
	Config config.Config
	Scores gamestate.Scores
	Sink   audio.Sink

	TermSizeFunc draw.TermSizeFunc
	// Hub is set for shared servers. The session registers with it and
	// reports its score.
	Hub      *hub.Hub
	Username string
	// Inactivity disconnects sessions that stop pressing keys.
	Inactivity bool
	Logger     *log.Logger
}

// Client handles rendering and input for a single terminal.
type Client struct {
	game        *Game
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	writer      io.Writer
	inputStream *input.Stream
	frameTime   time.Duration
	opts        Options
	session     *hub.Session

	input         input.Input
	running       bool
	lastInput     time.Time
	inactive      bool
	shuttingDown  bool
	shutdownTimer float64
	reported      int
	borderDirty   bool
	prevMode      gamestate.Mode
}

// Run plays a game on the terminal behind r and w until the player quits,
// the input closes, the hub shuts down or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	return NewClient(r, w, opts).Run(ctx)
}

// NewClient prepares a session. Zero options fall back to the defaults.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	if opts.Config.FPS == 0 {
		opts.Config = config.Default()
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Scores == nil {
		opts.Scores = highscore.Open("", highscore.WithLogger(opts.Logger))
	}

	game := NewGame(opts.Config, opts.Scores, opts.Sink)
	screen := game.Screen()

	termWidth, termHeight, _ := opts.TermSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(termWidth, termHeight, MaxTermWidth, MaxTermHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, screen.Width, screen.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		game:        game,
		canvas:      canvas,
		chunkWriter: draw.NewChunkWriter(w),
		writer:      w,
		inputStream: input.StartStream(r),
		frameTime:   time.Second / time.Duration(opts.Config.FPS),
		opts:        opts,
		running:     true,
		lastInput:   time.Now(),
		borderDirty: true,
	}
}

// Game returns the session's game.
func (c *Client) Game() *Game { return c.game }

// Run starts the frame loop and blocks until the session ends.
func (c *Client) Run(ctx context.Context) error {
	if c.opts.Hub != nil {
		c.session = c.opts.Hub.Register(c.opts.Username)
		defer c.opts.Hub.Unregister(c.session.ID)
	}

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.running {
		select {
		case <-ctx.Done():
			c.running = false
			continue
		default:
		}

		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), maxFrameDelta)
		lastTime = frameStart

		c.processInput()
		c.processHubEvents()
		c.updateScreen()

		if c.shuttingDown {
			c.updateShutdown(dt)
		} else if !c.inactive {
			c.game.Update(dt, c.input)
			c.modeChanged()
			c.reportScore()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < c.frameTime {
			time.Sleep(c.frameTime - elapsed)
		}
	}

	draw.ResetStyle(c.writer)
	draw.ClearScreen(c.writer)
	return nil
}

func (c *Client) processInput() {
	c.input = input.ReadInput(c.inputStream)

	if c.input.Quit {
		c.running = false
		return
	}

	if c.input.Activity {
		c.lastInput = time.Now()
		if c.inactive {
			// The key that woke the session is not played.
			c.inactive = false
			c.input = input.Input{}
		}
	} else if c.opts.Inactivity {
		idle := time.Since(c.lastInput).Seconds()
		switch {
		case idle > InactivityDisconnectUser:
			c.opts.Logger.Info("disconnecting idle session", "user", c.opts.Username)
			c.running = false
		case idle > InactivityWarnUser:
			c.inactive = true
		}
	}
}

func (c *Client) processHubEvents() {
	if c.session == nil {
		return
	}
	for {
		select {
		case ev, ok := <-c.session.Events:
			if !ok {
				c.running = false
				return
			}
			if ev.Type == hub.EventServerShutdown && !c.shuttingDown {
				c.shuttingDown = true
				c.shutdownTimer = ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

func (c *Client) updateShutdown(dt float64) {
	c.shutdownTimer -= dt
	if c.shutdownTimer <= 0 {
		c.running = false
	}
}

// modeChanged drops held movement keys when a game starts so the cannon
// does not drift from a key pressed on the previous screen.
func (c *Client) modeChanged() {
	mode := c.game.Mode()
	if mode == c.prevMode {
		return
	}
	if mode == gamestate.Playing {
		input.ResetKeyInput(c.inputStream)
		c.reported = 0
	}
	c.opts.Logger.Debug("screen changed", "user", c.opts.Username, "from", c.prevMode, "to", mode,
		"score", c.game.State().Score())
	c.prevMode = mode
}

// reportScore tells the hub about a better score than last reported.
func (c *Client) reportScore() {
	if c.session == nil {
		return
	}
	score := c.game.State().Score()
	if c.game.Mode() == gamestate.Playing && score > c.reported {
		c.opts.Hub.ReportScore(c.session.ID, score)
		c.reported = score
	}
}

// updateScreen follows terminal resizes. A changed render area gets a full
// clear so nothing is left outside it.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.opts.TermSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(termWidth, termHeight, MaxTermWidth, MaxTermHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[0m\033[H\033[2J")
		c.canvas.Resize(renderWidth, renderHeight)
		c.canvas.SetOffset(offsetCol, offsetRow)
		c.canvas.ForceRedraw()
		c.borderDirty = true
	}
}
